package infra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prokizzle/feeling-mindful-website/internal/config"
	"github.com/prokizzle/feeling-mindful-website/internal/docstore"
)

// OpenStore builds the document store selected by cfg.StoreDriver, applying
// schema migrations for the SQL backends.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		logger.Warn("using in-memory document store; submissions are lost on restart")
		return docstore.NewMemory(), nil

	case config.StorePostgres:
		if err := docstore.MigratePostgres(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return docstore.NewPostgres(pool), nil

	case config.StoreSQLite:
		db, err := NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store := docstore.NewSQLite(db)
		if err := store.ApplyMigrations(); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.StoreFirestore:
		client, err := NewFirestoreClient(ctx, cfg.FirestoreProject, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, err
		}
		return docstore.NewFirestore(client), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
