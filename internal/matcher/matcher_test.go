package matcher_test

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/vestige/internal/matcher"
	"github.com/farcloser/vestige/internal/types"
)

func seq(from, to uint64) *types.Fingerprint {
	fp := &types.Fingerprint{}
	for h := from; h < to; h++ {
		fp.Hashes = append(fp.Hashes, h)
	}

	return fp
}

func TestEmptyCollection(t *testing.T) {
	m := matcher.New(matcher.DefaultThreshold)

	name, ok := m.FindBestMatch(seq(0, 100))
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Zero(t, m.Len())
}

func TestReflexive(t *testing.T) {
	m := matcher.New(matcher.DefaultThreshold)
	fp := seq(0, 50)
	m.Add("clip1", fp)
	m.Add("other", seq(1000, 1100))

	name, ok := m.FindBestMatch(fp)
	require.True(t, ok)
	assert.Equal(t, "clip1", name)

	best, ok := m.Best(fp)
	require.True(t, ok)
	assert.Equal(t, len(fp.Hashes), best.Score)
}

func TestThresholdIsStrict(t *testing.T) {
	m := matcher.New(10)
	m.Add("a", seq(0, 10))

	_, ok := m.FindBestMatch(seq(0, 10))
	assert.False(t, ok, "score equal to threshold must not match")

	m.Add("a", seq(0, 11))

	name, ok := m.FindBestMatch(seq(0, 11))
	require.True(t, ok)
	assert.Equal(t, "a", name)
}

func TestQueryIsMultiset(t *testing.T) {
	stored := &types.Fingerprint{Hashes: []uint64{7}}
	query := &types.Fingerprint{Hashes: []uint64{7, 7, 7, 8}}

	assert.Equal(t, 3, matcher.Compare(query, stored))

	m := matcher.New(0)
	m.Add("x", stored)

	best, ok := m.Best(query)
	require.True(t, ok)
	assert.Equal(t, 3, best.Score)
}

func TestStoredMultiplicityIgnored(t *testing.T) {
	stored := &types.Fingerprint{Hashes: []uint64{7, 7, 7, 7}}
	query := &types.Fingerprint{Hashes: []uint64{7}}

	assert.Equal(t, 1, matcher.Compare(query, stored))

	m := matcher.New(0)
	m.Add("x", stored)

	best, _ := m.Best(query)
	assert.Equal(t, 1, best.Score)
}

func TestTieBreaksByName(t *testing.T) {
	m := matcher.New(0)
	for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
		m.Add(name, seq(0, 20))
	}

	for range 20 {
		name, ok := m.FindBestMatch(seq(0, 20))
		require.True(t, ok)
		assert.Equal(t, "alpha", name)
	}
}

func TestOverwriteLastWriteWins(t *testing.T) {
	m := matcher.New(5)
	m.Add("clip", seq(0, 20))
	m.Add("clip", seq(100, 120))

	assert.Equal(t, 1, m.Len())

	_, ok := m.FindBestMatch(seq(0, 20))
	assert.False(t, ok, "previous hashes must be gone from the index")

	name, ok := m.FindBestMatch(seq(100, 120))
	require.True(t, ok)
	assert.Equal(t, "clip", name)

	got, ok := m.Get("clip")
	require.True(t, ok)
	assert.Equal(t, seq(100, 120), got)
}

func TestAddCopiesFingerprint(t *testing.T) {
	m := matcher.New(5)
	fp := seq(0, 20)
	m.Add("clip", fp)

	for i := range fp.Hashes {
		fp.Hashes[i] += 1000
	}

	fp.Hashes = append(fp.Hashes, 5000)

	name, ok := m.FindBestMatch(seq(0, 20))
	require.True(t, ok)
	assert.Equal(t, "clip", name)

	_, ok = m.FindBestMatch(seq(1000, 1020))
	assert.False(t, ok)

	got, _ := m.Get("clip")
	assert.Equal(t, seq(0, 20), got)
}

func TestMonotonic(t *testing.T) {
	stored := seq(0, 100)
	m := matcher.New(0)
	m.Add("s", stored)

	previous := 0

	for n := uint64(0); n <= 100; n += 10 {
		query := seq(1000, 1050)
		query.Hashes = append(query.Hashes, seq(0, n).Hashes...)

		best, _ := m.Best(query)
		assert.GreaterOrEqual(t, best.Score, previous)
		previous = best.Score
	}

	assert.Equal(t, 100, previous)
}

func TestIndexMatchesNaiveScoring(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	random := func(n int) *types.Fingerprint {
		fp := &types.Fingerprint{}
		for range n {
			fp.Hashes = append(fp.Hashes, rng.Uint64N(400))
		}

		return fp
	}

	m := matcher.New(matcher.DefaultThreshold)
	stored := map[string]*types.Fingerprint{}

	for i := range 25 {
		name := fmt.Sprintf("clip-%02d", i)
		stored[name] = random(50 + i*3)
		m.Add(name, stored[name])
	}

	// Overwrite a few to exercise unindexing.
	for _, name := range []string{"clip-03", "clip-10", "clip-24"} {
		stored[name] = random(80)
		m.Add(name, stored[name])
	}

	for range 20 {
		query := random(120)

		want := map[string]int{}
		bestName, bestScore := "", 0

		for name, fp := range stored {
			score := matcher.Compare(query, fp)
			if score > 0 {
				want[name] = score
			}

			if score > bestScore || (score == bestScore && score > 0 && name < bestName) {
				bestName, bestScore = name, score
			}
		}

		got := map[string]int{}
		for _, s := range m.Scores(query) {
			got[s.Name] = s.Score
		}

		assert.Equal(t, want, got)

		name, ok := m.FindBestMatch(query)
		if bestScore > matcher.DefaultThreshold {
			require.True(t, ok)
			assert.Equal(t, bestName, name)
		} else {
			assert.False(t, ok)
		}
	}
}

func TestScoresRanked(t *testing.T) {
	m := matcher.New(0)
	m.Add("low", seq(0, 5))
	m.Add("high", seq(0, 30))
	m.Add("none", seq(500, 510))

	scores := m.Scores(seq(0, 30))
	assert.Equal(t, []types.Score{{Name: "high", Score: 30}, {Name: "low", Score: 5}}, scores)
}

func TestEmptyAndNilFingerprints(t *testing.T) {
	m := matcher.New(matcher.DefaultThreshold)
	m.Add("nil", nil)
	m.Add("empty", &types.Fingerprint{})

	assert.Equal(t, []string{"empty", "nil"}, m.Names())

	_, ok := m.FindBestMatch(nil)
	assert.False(t, ok)

	_, ok = m.FindBestMatch(&types.Fingerprint{})
	assert.False(t, ok)

	assert.Zero(t, matcher.Compare(nil, seq(0, 5)))
}

func TestConcurrentAddAndMatch(t *testing.T) {
	m := matcher.New(matcher.DefaultThreshold)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			base := uint64(i) * 1000
			m.Add(fmt.Sprintf("clip-%02d", i), seq(base, base+40))
			m.FindBestMatch(seq(base, base+40))
		}()
	}

	wg.Wait()

	require.Equal(t, 16, m.Len())

	name, ok := m.FindBestMatch(seq(7000, 7040))
	require.True(t, ok)
	assert.Equal(t, "clip-07", name)
}
