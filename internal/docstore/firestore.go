package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Firestore writes documents to Cloud Firestore collections. Timestamps are
// assigned by Firestore itself.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an existing client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

// Create adds doc under collection with an auto-generated document ID.
func (s *Firestore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}

	data := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if IsServerTimestamp(v) {
			data[k] = firestore.ServerTimestamp
			continue
		}
		data[k] = v
	}

	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

// Ping lists at most one collection to confirm credentials and reachability.
func (s *Firestore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the client.
func (s *Firestore) Close() error {
	return s.client.Close()
}
