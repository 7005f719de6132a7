package betasignup

import (
	"context"

	"github.com/prokizzle/feeling-mindful-website/internal/docstore"
)

// Repository persists signups. Signups are write-only.
type Repository interface {
	Create(ctx context.Context, signup Signup) (string, error)
}

// DocumentRepository writes signups into a document store collection.
type DocumentRepository struct {
	store docstore.Creator
}

// NewDocumentRepository builds a repository on top of store.
func NewDocumentRepository(store docstore.Creator) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// Create appends one beta-testers document.
func (r *DocumentRepository) Create(ctx context.Context, s Signup) (string, error) {
	return r.store.Create(ctx, Collection, docstore.Document{
		"name":       s.Name,
		"email":      s.Email,
		"platform":   s.Platform,
		"experience": nullable(s.Experience),
		"app":        s.App,
		"createdAt":  docstore.ServerTimestamp,
		"invited":    s.Invited,
		"userId":     nullable(s.UserID),
	})
}

// nullable unwraps p so a missing value is stored as an untyped nil.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
