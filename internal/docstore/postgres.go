package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prokizzle/feeling-mindful-website/internal/docstore/migrations"
	"github.com/prokizzle/feeling-mindful-website/internal/idx"
)

// Postgres persists documents as JSONB rows in a single documents table.
type Postgres struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewPostgres builds a Postgres-backed document store.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Create inserts doc into collection.
func (s *Postgres) Create(ctx context.Context, collection string, doc Document) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}

	now := s.now().UTC()
	data, err := json.Marshal(resolve(doc, now))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := idx.NewAt(now)
	_, err = s.db.Exec(ctx, `INSERT INTO documents (id, collection, data, created_at)
        VALUES ($1, $2, $3, $4)`, id, collection, string(data), now)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Ping checks connectivity.
func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (s *Postgres) Close() error {
	s.db.Close()
	return nil
}

// MigratePostgres applies the embedded schema to the database at url.
func MigratePostgres(url string) error {
	src, err := iofs.New(migrations.FS, migrations.PostgresDir)
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(url))
	if err != nil {
		return fmt.Errorf("init postgres migrations: %w", err)
	}
	defer instance.Close()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply postgres migrations: %w", err)
	}
	return nil
}

// pgx5URL rewrites a libpq style URL to the scheme registered by the
// golang-migrate pgx/v5 driver.
func pgx5URL(url string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(url, prefix) {
			return "pgx5://" + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
