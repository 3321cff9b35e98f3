package hashing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/vestige/internal/hashing"
	"github.com/farcloser/vestige/internal/types"
)

func peaks(n int) []types.Peak {
	out := make([]types.Peak, n)
	for i := range out {
		out[i] = types.Peak{Frequency: 100 + float64(i)*37.5, Time: float64(i) * 0.7}
	}

	return out
}

func TestGenerateCount(t *testing.T) {
	for _, fanOut := range []int{1, 2, 5, 9} {
		for n := range 20 {
			want := 0
			for i := range n {
				want += min(fanOut, n-1-i)
			}

			got := hashing.Generate(peaks(n), fanOut)
			assert.Len(t, got, want, "n=%d fan-out=%d", n, fanOut)
			assert.Equal(t, want, hashing.Count(n, fanOut))
			assert.LessOrEqual(t, len(got), n*fanOut)
		}
	}
}

func TestGenerateFewerThanTwoPeaks(t *testing.T) {
	assert.Empty(t, hashing.Generate(nil, hashing.DefaultFanOut))
	assert.Empty(t, hashing.Generate(peaks(1), hashing.DefaultFanOut))
}

func TestGenerateOrder(t *testing.T) {
	in := peaks(4)
	got := hashing.Generate(in, 2)

	pair := func(a, b int) uint64 {
		return hashing.Hash(
			uint32(in[a].Frequency),
			uint32(in[b].Frequency),
			uint32(in[b].Time-in[a].Time),
		)
	}

	assert.Equal(t, []uint64{pair(0, 1), pair(0, 2), pair(1, 2), pair(1, 3), pair(2, 3)}, got)
}

func TestGenerateDeterministic(t *testing.T) {
	in := peaks(50)
	assert.Equal(t, hashing.Generate(in, 5), hashing.Generate(in, 5))
}

func TestGenerateTruncatesComponents(t *testing.T) {
	a := []types.Peak{{Frequency: 440.2, Time: 1.0}, {Frequency: 880.9, Time: 2.9}}
	b := []types.Peak{{Frequency: 440.7, Time: 3.0}, {Frequency: 880.1, Time: 4.2}}

	require.Len(t, hashing.Generate(a, 5), 1)
	assert.Equal(t, hashing.Generate(a, 5), hashing.Generate(b, 5))
	assert.Equal(t, hashing.Hash(440, 880, 1), hashing.Generate(a, 5)[0])
}

func TestHashDistinguishesComponents(t *testing.T) {
	base := hashing.Hash(100, 200, 3)

	assert.NotEqual(t, base, hashing.Hash(200, 100, 3))
	assert.NotEqual(t, base, hashing.Hash(100, 200, 4))
	assert.NotEqual(t, base, hashing.Hash(101, 200, 3))
	assert.Equal(t, base, hashing.Hash(100, 200, 3))
}

func TestCountNonPositiveFanOut(t *testing.T) {
	assert.Zero(t, hashing.Count(10, 0))
	assert.Empty(t, hashing.Generate(peaks(10), 0))
}
