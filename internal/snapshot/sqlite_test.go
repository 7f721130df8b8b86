package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteadyHua/github1s/internal/gitfs"
)

type fixtureRemote struct{}

func (fixtureRemote) Key() string { return "octo/demo@main" }

func (fixtureRemote) ReadDir(ctx context.Context, dir string) ([]gitfs.RemoteEntry, error) {
	switch dir {
	case "":
		return []gitfs.RemoteEntry{
			{Name: "src", Dir: true, OID: "sha-src"},
			{Name: "README.md", OID: "sha-readme", Size: 6},
		}, nil
	case "src":
		return []gitfs.RemoteEntry{
			{Name: "main.go", OID: "sha-main", Size: 13},
		}, nil
	default:
		return nil, fmt.Errorf("%s: %w", dir, gitfs.ErrNotFound)
	}
}

func (f fixtureRemote) ReadTree(ctx context.Context, dir string) ([]gitfs.RemoteEntry, error) {
	return f.ReadDir(ctx, dir)
}

func (fixtureRemote) ReadBlob(ctx context.Context, path, oid string) ([]byte, error) {
	switch oid {
	case "sha-readme":
		return []byte("hello\n"), nil
	case "sha-main":
		return []byte("package main\n"), nil
	default:
		return nil, fmt.Errorf("%s: %w", oid, gitfs.ErrNotFound)
	}
}

func TestExportWritesAllNodes(t *testing.T) {
	fs := gitfs.New(fixtureRemote{}, gitfs.Options{})
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")

	count, err := Export(context.Background(), fs, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n))
	assert.Equal(t, 3, n)

	var kind int
	var content []byte
	require.NoError(t, db.QueryRow(
		"SELECT kind, content FROM nodes WHERE path = ?", "src/main.go").
		Scan(&kind, &content))
	assert.Equal(t, kindFile, kind)
	assert.Equal(t, "package main\n", string(content))

	require.NoError(t, db.QueryRow(
		"SELECT kind FROM nodes WHERE path = ?", "src").Scan(&kind))
	assert.Equal(t, kindDir, kind)

	var parent string
	require.NoError(t, db.QueryRow(
		"SELECT parent FROM nodes WHERE path = ?", "src/main.go").Scan(&parent))
	assert.Equal(t, "src", parent)
}

func TestExportAbortsOnMissingBlob(t *testing.T) {
	fs := gitfs.New(brokenRemote{}, gitfs.Options{})
	dbPath := filepath.Join(t.TempDir(), "broken.db")

	_, err := Export(context.Background(), fs, dbPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, gitfs.ErrNotFound)
}

type brokenRemote struct{ fixtureRemote }

func (brokenRemote) ReadBlob(ctx context.Context, path, oid string) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", oid, gitfs.ErrNotFound)
}
