package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/farcloser/vestige/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
    name TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS peaks (
    name TEXT NOT NULL REFERENCES fingerprints(name) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    frequency REAL NOT NULL,
    time REAL NOT NULL,
    PRIMARY KEY (name, seq)
);
CREATE TABLE IF NOT EXISTS hashes (
    name TEXT NOT NULL REFERENCES fingerprints(name) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    hash INTEGER NOT NULL,
    PRIMARY KEY (name, seq)
);
CREATE INDEX IF NOT EXISTS idx_hashes_hash ON hashes(hash);
`

// SQLite stores fingerprints in three tables: names, peaks and hashes.
// Hashes are stored as the two's complement int64 of their uint64 value.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}

	// One writer at a time, concurrent Puts queue on the pool instead of failing as busy.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(ctx context.Context, name string, fp *types.Fingerprint) error {
	if name == "" {
		return ErrEmptyName
	}

	if fp == nil {
		fp = &types.Fingerprint{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprints WHERE name = ?`, name); err != nil {
		return fmt.Errorf("error deleting previous fingerprint: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO fingerprints (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("error inserting fingerprint: %w", err)
	}

	peakStmt, err := tx.PrepareContext(ctx, `INSERT INTO peaks (name, seq, frequency, time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing peak insert: %w", err)
	}
	defer peakStmt.Close()

	for i, p := range fp.Peaks {
		if _, err := peakStmt.ExecContext(ctx, name, i, p.Frequency, p.Time); err != nil {
			return fmt.Errorf("error inserting peak: %w", err)
		}
	}

	hashStmt, err := tx.PrepareContext(ctx, `INSERT INTO hashes (name, seq, hash) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing hash insert: %w", err)
	}
	defer hashStmt.Close()

	for i, h := range fp.Hashes {
		if _, err := hashStmt.ExecContext(ctx, name, i, int64(h)); err != nil { //nolint:gosec // bit pattern preserved
			return fmt.Errorf("error inserting hash: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) Load(ctx context.Context) (map[string]*types.Fingerprint, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}

	collection := make(map[string]*types.Fingerprint, len(names))
	for _, name := range names {
		collection[name] = &types.Fingerprint{}
	}

	if err := s.loadPeaks(ctx, collection); err != nil {
		return nil, err
	}

	if err := s.loadHashes(ctx, collection); err != nil {
		return nil, err
	}

	return collection, nil
}

func (s *SQLite) loadPeaks(ctx context.Context, collection map[string]*types.Fingerprint) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, frequency, time FROM peaks ORDER BY name, seq`)
	if err != nil {
		return fmt.Errorf("error querying peaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			peak types.Peak
		)

		if err := rows.Scan(&name, &peak.Frequency, &peak.Time); err != nil {
			return fmt.Errorf("error scanning peak: %w", err)
		}

		if fp, ok := collection[name]; ok {
			fp.Peaks = append(fp.Peaks, peak)
		}
	}

	return rows.Err()
}

func (s *SQLite) loadHashes(ctx context.Context, collection map[string]*types.Fingerprint) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, hash FROM hashes ORDER BY name, seq`)
	if err != nil {
		return fmt.Errorf("error querying hashes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			hash int64
		)

		if err := rows.Scan(&name, &hash); err != nil {
			return fmt.Errorf("error scanning hash: %w", err)
		}

		if fp, ok := collection[name]; ok {
			fp.Hashes = append(fp.Hashes, uint64(hash)) //nolint:gosec // bit pattern preserved
		}
	}

	return rows.Err()
}

func (s *SQLite) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM fingerprints ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying fingerprints: %w", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning fingerprint: %w", err)
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
