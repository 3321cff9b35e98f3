// Package store persists named fingerprint collections.
package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/farcloser/vestige/internal/types"
)

var ErrEmptyName = errors.New("fingerprint name must not be empty")

// Store is a persistent name to fingerprint collection. Put overwrites any
// existing entry with the same name.
type Store interface {
	Load(ctx context.Context) (map[string]*types.Fingerprint, error)
	Put(ctx context.Context, name string, fp *types.Fingerprint) error
	Names(ctx context.Context) ([]string, error)
	Close() error
}

// Open picks a backend from the file extension: .db, .sqlite and .sqlite3
// open a SQLite database, anything else a JSON document.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return OpenJSON(path), nil
	}
}
