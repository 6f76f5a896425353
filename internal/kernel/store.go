// Package kernel stores notebooks, document blocks and references in sqlite
// and serves them over the JSON API the terminal client consumes.
package kernel

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/model"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS notebooks (
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	sort   INTEGER NOT NULL DEFAULT 0,
	closed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS blocks (
	id        TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL DEFAULT '',
	root_id   TEXT NOT NULL,
	box       TEXT NOT NULL,
	path      TEXT NOT NULL,
	hpath     TEXT NOT NULL DEFAULT '',
	name      TEXT NOT NULL DEFAULT '',
	alias     TEXT NOT NULL DEFAULT '',
	memo      TEXT NOT NULL DEFAULT '',
	content   TEXT NOT NULL DEFAULT '',
	markdown  TEXT NOT NULL DEFAULT '',
	type      TEXT NOT NULL,
	subtype   TEXT NOT NULL DEFAULT '',
	ial       TEXT NOT NULL DEFAULT '{}',
	sort      INTEGER NOT NULL DEFAULT 0,
	created   TEXT NOT NULL DEFAULT '',
	updated   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_blocks_root ON blocks(root_id);
CREATE INDEX IF NOT EXISTS idx_blocks_path ON blocks(box, path);
CREATE TABLE IF NOT EXISTS refs (
	id                  TEXT PRIMARY KEY,
	def_block_id        TEXT NOT NULL,
	def_block_parent_id TEXT NOT NULL DEFAULT '',
	def_block_root_id   TEXT NOT NULL,
	def_block_path      TEXT NOT NULL,
	block_id            TEXT NOT NULL,
	root_id             TEXT NOT NULL,
	box                 TEXT NOT NULL,
	path                TEXT NOT NULL,
	content             TEXT NOT NULL DEFAULT '',
	markdown            TEXT NOT NULL DEFAULT '',
	type                TEXT NOT NULL DEFAULT 'ref-id'
);
CREATE INDEX IF NOT EXISTS idx_refs_def_root ON refs(def_block_root_id);
CREATE INDEX IF NOT EXISTS idx_refs_root ON refs(root_id);
CREATE TABLE IF NOT EXISTS conf (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	confKeyFileTree = "fileTree"
	confKeyEditor   = "editor"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the sqlite-backed kernel state.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("kernel: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kernel: create database dir: %w", err)
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("kernel: open %s: %w", path, err)
	}
	// a single connection serializes writers; callers inside a transaction
	// must only use the transaction handle.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kernel: apply schema: %w", err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Conf returns the persisted configuration, filling in defaults for
// sections that were never saved.
func (s *Store) Conf(ctx context.Context) (*conf.Conf, error) {
	c := conf.NewConf()
	if err := s.loadConf(ctx, confKeyFileTree, c.FileTree); err != nil {
		return nil, err
	}
	if err := s.loadConf(ctx, confKeyEditor, c.Editor); err != nil {
		return nil, err
	}
	return c, nil
}

// SetFileTree normalizes ft, persists it and returns the canonical copy.
func (s *Store) SetFileTree(ctx context.Context, ft conf.FileTree) (*conf.FileTree, error) {
	ft.Normalize()
	if err := ft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.saveConf(ctx, confKeyFileTree, ft); err != nil {
		return nil, err
	}
	return ft.Clone(), nil
}

// SetEditor persists the editor section and returns it.
func (s *Store) SetEditor(ctx context.Context, ed conf.Editor) (*conf.Editor, error) {
	if err := s.saveConf(ctx, confKeyEditor, ed); err != nil {
		return nil, err
	}
	return ed.Clone(), nil
}

func (s *Store) loadConf(ctx context.Context, key string, dest interface{}) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM conf WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load conf %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode conf %s: %w", key, err)
	}
	return nil
}

func (s *Store) saveConf(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode conf %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conf (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("save conf %s: %w", key, err)
	}
	return nil
}

const blockColumns = `id, parent_id, root_id, box, path, hpath, name, alias, memo, content, markdown, type, subtype, ial, sort, created, updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (model.Block, error) {
	var (
		b   model.Block
		ial string
	)
	err := row.Scan(&b.ID, &b.ParentID, &b.RootID, &b.Box, &b.Path, &b.HPath, &b.Name, &b.Alias, &b.Memo,
		&b.Content, &b.Markdown, &b.Type, &b.SubType, &ial, &b.Sort, &b.Created, &b.Updated)
	if err != nil {
		return b, err
	}
	if b.IAL, err = decodeIAL(ial); err != nil {
		return b, fmt.Errorf("block %s: decode ial: %w", b.ID, err)
	}
	return b, nil
}

func queryBlocks(ctx context.Context, q querier, query string, args ...any) ([]model.Block, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var blocks []model.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func getBlock(ctx context.Context, q querier, id string) (model.Block, error) {
	row := q.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("block %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return b, fmt.Errorf("load block %s: %w", id, err)
	}
	return b, nil
}

func insertBlock(ctx context.Context, q querier, b model.Block) error {
	_, err := q.ExecContext(ctx, `INSERT INTO blocks (`+blockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ParentID, b.RootID, b.Box, b.Path, b.HPath, b.Name, b.Alias, b.Memo, b.Content, b.Markdown,
		b.Type, b.SubType, encodeIAL(b.IAL), b.Sort, b.Created, b.Updated)
	if err != nil {
		return fmt.Errorf("insert block %s: %w", b.ID, err)
	}
	return nil
}

func decodeIAL(raw string) (map[string]string, error) {
	ial := map[string]string{}
	if raw == "" {
		return ial, nil
	}
	if err := json.Unmarshal([]byte(raw), &ial); err != nil {
		return nil, err
	}
	return ial, nil
}

func encodeIAL(ial map[string]string) string {
	if len(ial) == 0 {
		return "{}"
	}
	data, err := json.Marshal(ial)
	if err != nil {
		return "{}"
	}
	return string(data)
}
