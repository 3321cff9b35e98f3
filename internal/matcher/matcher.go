// Package matcher identifies a query fingerprint against a named collection.
//
// Scoring counts the query's hash occurrences that appear at least once in a
// candidate's hash set. The query side is a multiset (duplicates count every
// time), the stored side is only tested for membership. Candidates are looked
// up through an inverted index built on insertion, which yields the same
// scores as comparing the query against every stored fingerprint.
package matcher

import (
	"cmp"
	"slices"
	"sync"

	"github.com/farcloser/vestige/internal/types"
)

const DefaultThreshold = 10

type nameSet map[string]struct{}

// Matcher is a fingerprint collection. It is safe for concurrent use.
type Matcher struct {
	mu        sync.RWMutex
	threshold int
	entries   map[string]*types.Fingerprint
	index     map[uint64]nameSet
}

// New returns an empty matcher. A match requires a score strictly above threshold.
func New(threshold int) *Matcher {
	return &Matcher{
		threshold: threshold,
		entries:   make(map[string]*types.Fingerprint),
		index:     make(map[uint64]nameSet),
	}
}

// Threshold returns the minimum score a match must exceed.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Add inserts a copy of fp under name, replacing any previous entry with that name.
func (m *Matcher) Add(name string, fp *types.Fingerprint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[name]; ok {
		m.unindex(name, old)
	}

	if fp == nil {
		m.entries[name] = nil

		return
	}

	// The collection keeps its own copy so later changes to fp cannot
	// desynchronize entries and index.
	fp = &types.Fingerprint{Peaks: slices.Clone(fp.Peaks), Hashes: slices.Clone(fp.Hashes)}
	m.entries[name] = fp

	for _, h := range fp.Hashes {
		names, ok := m.index[h]
		if !ok {
			names = make(nameSet, 1)
			m.index[h] = names
		}

		names[name] = struct{}{}
	}
}

func (m *Matcher) unindex(name string, fp *types.Fingerprint) {
	if fp == nil {
		return
	}

	for _, h := range fp.Hashes {
		names := m.index[h]
		delete(names, name)

		if len(names) == 0 {
			delete(m.index, h)
		}
	}
}

// Get returns the fingerprint stored under name.
func (m *Matcher) Get(name string) (*types.Fingerprint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fp, ok := m.entries[name]

	return fp, ok
}

// Len returns the number of stored fingerprints.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Names returns the stored names in lexicographic order.
func (m *Matcher) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Scores returns every stored fingerprint sharing at least one hash with the
// query, highest score first, ties in lexicographic name order.
func (m *Matcher) Scores(query *types.Fingerprint) []types.Score {
	if query.Empty() {
		return nil
	}

	counts := make(map[string]int)

	m.mu.RLock()

	for _, h := range query.Hashes {
		for name := range m.index[h] {
			counts[name]++
		}
	}

	m.mu.RUnlock()

	scores := make([]types.Score, 0, len(counts))
	for name, score := range counts {
		scores = append(scores, types.Score{Name: name, Score: score})
	}

	slices.SortFunc(scores, func(a, b types.Score) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return scores
}

// Best returns the highest scoring candidate regardless of the threshold.
func (m *Matcher) Best(query *types.Fingerprint) (types.Score, bool) {
	scores := m.Scores(query)
	if len(scores) == 0 {
		return types.Score{}, false
	}

	return scores[0], true
}

// FindBestMatch returns the name of the best scoring fingerprint, provided its
// score exceeds the threshold.
func (m *Matcher) FindBestMatch(query *types.Fingerprint) (string, bool) {
	best, ok := m.Best(query)
	if !ok || best.Score <= m.threshold {
		return "", false
	}

	return best.Name, true
}

// Compare scores query against a single stored fingerprint without an index.
func Compare(query, stored *types.Fingerprint) int {
	if query.Empty() || stored.Empty() {
		return 0
	}

	set := make(map[uint64]struct{}, len(stored.Hashes))
	for _, h := range stored.Hashes {
		set[h] = struct{}{}
	}

	score := 0

	for _, h := range query.Hashes {
		if _, ok := set[h]; ok {
			score++
		}
	}

	return score
}
