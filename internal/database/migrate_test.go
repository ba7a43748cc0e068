package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilework.db")

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.Zero(t, version)
	require.False(t, dirty)

	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	version, dirty, err = SchemaVersion(path)
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
	require.False(t, dirty)

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('layouts', 'layout_history')`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "tilework.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO layouts(name, tree) VALUES ('x', '{}')`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM layouts`).Scan(&n))
	require.Zero(t, n)
}

var errBoom = errors.New("boom")
