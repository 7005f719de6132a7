package infra

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDBConfiguresEveryConnection(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	defer db.Close()

	conn1, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn1.Close()
	conn2, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn2.Close()

	for i, conn := range []*sql.Conn{conn1, conn2} {
		var timeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, 5000, timeout, "conn %d", i+1)

		var mode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", strings.ToLower(mode), "conn %d", i+1)
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "site.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN("site.db"))
	assert.Equal(t, "file:site.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		sqliteDSN("file:site.db?cache=shared"))
}

func TestNewSQLiteDBRequiresPath(t *testing.T) {
	_, err := NewSQLiteDB(context.Background(), "")
	assert.ErrorContains(t, err, "sqlite path is required")
}
