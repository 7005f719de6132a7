package docstore

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db":   "pgx5://u:p@localhost:5432/db",
		"postgresql://u:p@localhost:5432/db": "pgx5://u:p@localhost:5432/db",
		"pgx5://already":                     "pgx5://already",
	}
	for in, want := range cases {
		assert.Equal(t, want, pgx5URL(in), in)
	}
}

func TestPostgresCreate(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, MigratePostgres(url))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	store := NewPostgres(pool)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	id, err := store.Create(ctx, "beta-testers", Document{"name": "Ada", "createdAt": ServerTimestamp})
	require.NoError(t, err)

	var invited *bool
	var name string
	err = pool.QueryRow(ctx, `SELECT data->>'name', (data->>'invited')::boolean FROM documents WHERE id = $1`, id).Scan(&name, &invited)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	assert.Nil(t, invited)
}
