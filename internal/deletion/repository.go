package deletion

import (
	"context"

	"github.com/prokizzle/feeling-mindful-website/internal/docstore"
)

// Repository persists deletion requests.
type Repository interface {
	Create(ctx context.Context, req Request) (string, error)
}

// DocumentRepository writes requests into a document store collection.
type DocumentRepository struct {
	store docstore.Creator
}

// NewDocumentRepository builds a repository on top of store.
func NewDocumentRepository(store docstore.Creator) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// Create appends one data-deletion-requests document.
func (r *DocumentRepository) Create(ctx context.Context, req Request) (string, error) {
	var reason any
	if req.Reason != nil {
		reason = *req.Reason
	}
	return r.store.Create(ctx, Collection, docstore.Document{
		"email":       req.Email,
		"reason":      reason,
		"createdAt":   docstore.ServerTimestamp,
		"status":      req.Status,
		"processedAt": nil,
	})
}
