package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/vestige/internal/types"
)

// JSON stores the whole collection as one JSON object keyed by name.
// A missing file is an empty collection.
type JSON struct {
	mu   sync.Mutex
	path string
}

// OpenJSON returns a JSON store backed by path. The file is created on first Put.
func OpenJSON(path string) *JSON {
	return &JSON{path: path}
}

func (s *JSON) Load(_ context.Context) (map[string]*types.Fingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *JSON) Put(_ context.Context, name string, fp *types.Fingerprint) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.read()
	if err != nil {
		return err
	}

	collection[name] = normalize(fp)

	return s.write(collection)
}

func (s *JSON) Names(ctx context.Context) ([]string, error) {
	collection, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(collection))
	for name := range collection {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

func (s *JSON) Close() error {
	return nil
}

func (s *JSON) read() (map[string]*types.Fingerprint, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]*types.Fingerprint), nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	collection := make(map[string]*types.Fingerprint)
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrInvalidJSON, s.path, err)
	}

	slog.Debug("store.JSON", "path", s.path, "entries", len(collection))

	return collection, nil
}

// write replaces the file atomically through a sibling temporary file.
func (s *JSON) write(collection map[string]*types.Fingerprint) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// normalize gives nil fingerprints and slices their empty JSON form, so entries
// always carry "peaks" and "hash" arrays.
func normalize(fp *types.Fingerprint) *types.Fingerprint {
	out := &types.Fingerprint{Peaks: []types.Peak{}, Hashes: []uint64{}}
	if fp == nil {
		return out
	}

	if fp.Peaks != nil {
		out.Peaks = fp.Peaks
	}

	if fp.Hashes != nil {
		out.Hashes = fp.Hashes
	}

	return out
}
