package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/prokizzle/feeling-mindful-website/internal/docstore/migrations"
	"github.com/prokizzle/feeling-mindful-website/internal/idx"
)

// SQLite persists documents as JSON text rows. It suits single-node installs
// where running Postgres is not worth it.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite wraps an open database handle. Call ApplyMigrations before the
// first Create on a fresh database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

// ApplyMigrations applies any pending schema migrations from the embedded
// migration files.
func (s *SQLite) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, migrations.SQLiteDir)
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply sqlite migrations: %w", err)
	}
	return nil
}

// Create inserts doc into collection.
func (s *SQLite) Create(ctx context.Context, collection string, doc Document) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}

	now := s.now().UTC()
	data, err := json.Marshal(resolve(doc, now))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := idx.NewAt(now)
	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (id, collection, data, created_at) VALUES (?, ?, ?, ?)`,
		id, collection, string(data), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Ping checks the handle is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
