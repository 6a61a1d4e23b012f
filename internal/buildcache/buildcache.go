// Package buildcache memoizes compile results in a sqlite database keyed by
// the blake2b hash of the source text and the effective configuration, the
// same storageDir-plus-sql.Open("sqlite", ...) pattern the teacher's
// server/dao/sqlite package uses for its own on-disk stores, scaled down to
// the compiler's single-table needs.
package buildcache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	_ "modernc.org/sqlite"
	"golang.org/x/crypto/blake2b"
)

// ErrNotFound is returned by Get when no cached entry matches the key.
var ErrNotFound = errors.New("buildcache: not found")

// Entry is a cached compile result: the backend's rendered text output plus
// enough metadata to decide whether it is worth returning as-is.
type Entry struct {
	Output    string
	CreatedAt time.Time
}

// Cache is a content-addressed store of compile results, backed by a single
// sqlite database file under a configured directory.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database under dir.
func Open(dir string) (*Cache, error) {
	file := filepath.Join(dir, "buildcache.db")
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("open build cache: %w", err)
	}

	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		hash TEXT NOT NULL PRIMARY KEY,
		output BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("init build cache schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes the compiler inputs that determine a compile result: the
// source text and a string describing the effective configuration (backend
// kind and target triple are the only config fields that affect codegen
// output). Any other input that should invalidate the cache belongs in cfg.
func Key(source, cfg string) string {
	sum := blake2b.Sum256([]byte(cfg + "\x00" + source))
	return hex.EncodeToString(sum[:])
}

// Get looks up the entry for key. It returns ErrNotFound if no entry exists.
func (c *Cache) Get(ctx context.Context, key string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `SELECT output, created_at FROM entries WHERE hash = ?`, key)

	var blob []byte
	var createdAtUnix int64
	if err := row.Scan(&blob, &createdAtUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("build cache lookup: %w", err)
	}

	var output string
	if _, err := rezi.DecBinary(blob, &output); err != nil {
		return Entry{}, fmt.Errorf("build cache decode: %w", err)
	}

	return Entry{Output: output, CreatedAt: time.Unix(createdAtUnix, 0)}, nil
}

// Put stores output under key, overwriting any existing entry.
func (c *Cache) Put(ctx context.Context, key string, output string) error {
	blob := rezi.EncBinary(output)

	_, err := c.db.ExecContext(ctx, `INSERT INTO entries (hash, output, created_at) VALUES (?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET output = excluded.output, created_at = excluded.created_at`,
		key, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("build cache store: %w", err)
	}
	return nil
}
