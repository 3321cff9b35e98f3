package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/vestige/internal/audit/levels"
	"github.com/farcloser/vestige/internal/output"
	"github.com/farcloser/vestige/internal/types"
)

func TestFingerprintToMap(t *testing.T) {
	fp := &types.Fingerprint{
		Peaks:  []types.Peak{{Frequency: 430.6, Time: 0.23}, {Frequency: 861.3, Time: 1.16}},
		Hashes: []uint64{1, 2, 3},
	}

	meta := output.FingerprintToMap(fp, 44100, 2.5)
	assert.Equal(t, 2, meta["peak_count"])
	assert.Equal(t, 3, meta["hash_count"])
	assert.Equal(t, 44100, meta["sample_rate"])
	assert.InDelta(t, 2.5, meta["duration_s"], 1e-12)

	first, ok := meta["first_peak"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 430.6, first["frequency_hz"], 1e-12)
}

func TestFingerprintToMapEmpty(t *testing.T) {
	meta := output.FingerprintToMap(nil, 8000, 0)
	assert.Equal(t, 0, meta["peak_count"])
	assert.NotContains(t, meta, "first_peak")

	meta = output.FingerprintToMap(&types.Fingerprint{}, 8000, 0)
	assert.NotContains(t, meta, "last_peak")
}

func TestMatchToMap(t *testing.T) {
	scores := []types.Score{{Name: "a", Score: 40}, {Name: "b", Score: 12}, {Name: "c", Score: 3}}

	meta := output.MatchToMap("a", true, 10, scores, 2)
	assert.Equal(t, true, meta["matched"])
	assert.Equal(t, "a", meta["match"])
	assert.Len(t, meta["candidates"], 2)

	meta = output.MatchToMap("", false, 10, nil, 0)
	assert.Equal(t, false, meta["matched"])
	assert.NotContains(t, meta, "match")
	assert.Empty(t, meta["candidates"])
}

func TestCollectionToMap(t *testing.T) {
	meta := output.CollectionToMap([]string{"x", "y"})
	assert.Equal(t, 2, meta["count"])
	assert.Equal(t, []any{"x", "y"}, meta["names"])
}

func TestLevelsToMap(t *testing.T) {
	meta := output.LevelsToMap(levels.Measure(make([]float64, 800), 8000, levels.DefaultOptions()))
	assert.Equal(t, true, meta["silent"])
	assert.InDelta(t, levels.FloorDb, meta["peak_db"], 1e-12)
}
