package infra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewFirestoreClient connects to project. Without a credentials file the
// client falls back to application default credentials, which also covers
// FIRESTORE_EMULATOR_HOST.
func NewFirestoreClient(ctx context.Context, project, credentialsFile string) (*firestore.Client, error) {
	if project == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return client, nil
}
