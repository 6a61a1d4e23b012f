// Package tablecache persists a compiled lltable.Table as rezi-encoded
// bytes on disk, keyed by a hash of the grammar text it was compiled from,
// so a driver run against an unchanged grammar can skip FIRST/FOLLOW
// analysis and table compilation entirely. Grounded on the teacher's use of
// rezi.EncBinary/DecBinary to persist struct-shaped state (server/dao/sqlite
// encodes game.State the same way before storing it as a DB blob).
package tablecache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/minic/internal/lltable"
)

// ErrStale is returned by Load when the cache file exists but was built
// from different grammar text than grammarText hashes to.
var ErrStale = errors.New("tablecache: stale cache entry")

type cacheFile struct {
	GrammarHash string
	Table       lltable.Table
}

// Path returns the conventional cache file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, "table.rezi")
}

// Hash returns the hex-encoded SHA-256 of grammarText, the key a cache file
// is checked against.
func Hash(grammarText string) string {
	sum := sha256.Sum256([]byte(grammarText))
	return hex.EncodeToString(sum[:])
}

// Load reads a cached table from path, returning ErrStale if it was built
// from grammar text other than the one hashing to wantHash. A missing file
// is reported via the usual os.IsNotExist-checkable error.
func Load(path string, wantHash string) (*lltable.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf cacheFile
	if _, err := rezi.DecBinary(data, &cf); err != nil {
		return nil, fmt.Errorf("tablecache: decode: %w", err)
	}
	if cf.GrammarHash != wantHash {
		return nil, ErrStale
	}

	t := cf.Table
	return &t, nil
}

// Store writes t to path, tagged with grammarHash so a later Load can tell
// whether it is still fresh.
func Store(path string, grammarHash string, t *lltable.Table) error {
	cf := cacheFile{GrammarHash: grammarHash, Table: *t}
	data := rezi.EncBinary(cf)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tablecache: create cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tablecache: write: %w", err)
	}
	return nil
}
