package document

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hdbtools/vcxtract/api"
)

// SQLiteExporter writes an extracted document into a SQLite database so
// downstream tooling can query it without parsing the JSON document. One
// row per node, keyed by path, with the node's own records (children
// excluded) serialized into the record column.
type SQLiteExporter struct {
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewSQLiteExporter creates the database and its schema.
func NewSQLiteExporter(dbPath string) (*SQLiteExporter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		path TEXT PRIMARY KEY,
		parent_path TEXT,
		name TEXT NOT NULL,
		record JSON NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_path);

	CREATE TABLE IF NOT EXISTS assets (
		name TEXT PRIMARY KEY,
		style TEXT NOT NULL,
		record JSON NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO nodes (path, parent_path, name, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteExporter{db: db, tx: tx, stmt: stmt}, nil
}

// ExportTree inserts every node of the tree, parents before children.
func (w *SQLiteExporter) ExportTree(root *api.Node) error {
	return Visit(root, func(parent, n *api.Node) error {
		// Strip children: the hierarchy lives in parent_path.
		flat := *n
		flat.Children = nil
		record, err := json.Marshal(&flat)
		if err != nil {
			return fmt.Errorf("encode %s: %w", n.Path, err)
		}
		var parentPath *string
		if parent != nil {
			parentPath = &parent.Path
		}
		if _, err := w.stmt.Exec(n.Path, parentPath, n.Name, record); err != nil {
			return fmt.Errorf("insert %s: %w", n.Path, err)
		}
		return nil
	})
}

// ExportAssets inserts the flat asset list.
func (w *SQLiteExporter) ExportAssets(assets []api.Asset) error {
	stmt, err := w.tx.Prepare(`INSERT OR REPLACE INTO assets (name, style, record) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for i := range assets {
		record, err := json.Marshal(&assets[i])
		if err != nil {
			return fmt.Errorf("encode asset %s: %w", assets[i].Name, err)
		}
		if _, err := stmt.Exec(assets[i].Name, string(assets[i].Style), record); err != nil {
			return fmt.Errorf("insert asset %s: %w", assets[i].Name, err)
		}
	}
	return nil
}

// Close commits and closes the database.
func (w *SQLiteExporter) Close() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
	}
	if err := w.tx.Commit(); err != nil {
		_ = w.db.Close()
		return err
	}
	return w.db.Close()
}

// StreamNodes iterates the nodes table of an exported database in path
// order, one decoded node at a time.
func StreamNodes(dbPath string, fn func(path string, n *api.Node) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT path, record FROM nodes ORDER BY path")
	if err != nil {
		return fmt.Errorf("query nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path, raw string
		if err := rows.Scan(&path, &raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		var n api.Node
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return fmt.Errorf("parse record at %s: %w", path, err)
		}
		if err := fn(path, &n); err != nil {
			return err
		}
	}
	return rows.Err()
}
