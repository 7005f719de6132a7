// Package docstore is the append-only document persistence used by the site
// forms. Callers only ever create documents; reading, updating and deleting
// them is left to the operators' own tooling.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Document is a flat set of fields written as one record. Nil values are
// persisted as explicit nulls.
type Document map[string]any

type serverTimestamp struct{}

// ServerTimestamp asks the backend to fill the field with its own clock at
// write time.
var ServerTimestamp any = serverTimestamp{}

var (
	// ErrUnavailable reports that the backend could not be reached.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrInvalidCollection reports an empty or nested collection name.
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Creator appends one document to a collection and returns its identifier.
type Creator interface {
	Create(ctx context.Context, collection string, doc Document) (string, error)
}

// Store is a Creator with lifecycle hooks.
type Store interface {
	Creator
	Ping(ctx context.Context) error
	Close() error
}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

func checkCollection(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// resolve copies doc replacing ServerTimestamp sentinels with now.
func resolve(doc Document, now time.Time) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}
