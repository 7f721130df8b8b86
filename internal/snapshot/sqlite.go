// Package snapshot exports a fully-populated virtual tree into a
// SQLite file for offline inspection. The walk forces population of
// every directory and fetches every blob once; the in-memory cache
// keeps everything it fetched, so a subsequent browse is free.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/SteadyHua/github1s/internal/gitfs"
	"github.com/SteadyHua/github1s/internal/logging"
)

const (
	kindFile = 0
	kindDir  = 1
)

// Writer streams tree nodes into a SQLite database.
type Writer struct {
	db       *sql.DB
	tx       *sql.Tx
	stmtNode *sql.Stmt
	count    int
}

// NewWriter creates a writer and initializes the schema.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk-insert tuning; the file is written once and read many times.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		path TEXT PRIMARY KEY,
		parent TEXT,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		oid TEXT,
		size INTEGER DEFAULT 0,
		content BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{db: db}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO nodes
		(path, parent, name, kind, oid, size, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	w.tx = tx
	w.stmtNode = stmt
	return nil
}

func (w *Writer) addNode(path, parent, name string, kind int, oid string, size int64, content []byte) error {
	var blob interface{}
	if content != nil {
		blob = content
	}
	if _, err := w.stmtNode.Exec(path, parent, name, kind, oid, size, blob); err != nil {
		return fmt.Errorf("insert %s: %w", path, err)
	}
	w.count++
	return nil
}

// Close commits the pending transaction and closes the database.
func (w *Writer) Close() error {
	if w.tx != nil {
		if err := w.tx.Commit(); err != nil {
			_ = w.db.Close()
			return fmt.Errorf("commit: %w", err)
		}
		w.tx = nil
	}
	return w.db.Close()
}

// Export walks the whole tree rooted at "" and writes every node into
// dbPath. Returns the number of nodes written. Blob fetch failures
// abort the export; nothing partial is committed.
func Export(ctx context.Context, fs *gitfs.FileSystem, dbPath string) (int, error) {
	w, err := NewWriter(dbPath)
	if err != nil {
		return 0, err
	}

	if err := exportDir(ctx, fs, w, ""); err != nil {
		_ = w.db.Close()
		return 0, err
	}

	count := w.count
	if err := w.Close(); err != nil {
		return 0, err
	}
	logging.L().Info("snapshot exported",
		zap.String("db", dbPath), zap.Int("nodes", count))
	return count, nil
}

func exportDir(ctx context.Context, fs *gitfs.FileSystem, w *Writer, dir string) error {
	entries, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := e.Name
		if dir != "" {
			path = dir + "/" + e.Name
		}
		if e.IsDir {
			if err := w.addNode(path, dir, e.Name, kindDir, e.OID, 0, nil); err != nil {
				return err
			}
			if err := exportDir(ctx, fs, w, path); err != nil {
				return err
			}
			continue
		}
		content, err := fs.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		if err := w.addNode(path, dir, e.Name, kindFile, e.OID, int64(len(content)), content); err != nil {
			return err
		}
	}
	return nil
}
