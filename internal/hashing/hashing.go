// Package hashing pairs landmarks and derives fixed-width hashes from each pair.
package hashing

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/farcloser/vestige/internal/types"
)

const DefaultFanOut = 5

// Hash combines an anchor frequency, a target frequency and a time delta into a
// 64-bit FNV-1a hash. It is a pure function.
func Hash(anchorFreq, targetFreq, delta uint32) uint64 {
	var buf [12]byte

	binary.LittleEndian.PutUint32(buf[0:], anchorFreq)
	binary.LittleEndian.PutUint32(buf[4:], targetFreq)
	binary.LittleEndian.PutUint32(buf[8:], delta)

	h := fnv.New64a()
	_, _ = h.Write(buf[:])

	return h.Sum64()
}

// Generate pairs every peak with up to fanOut peaks that follow it in sequence
// order. Output is anchor-major, then target offset ascending.
func Generate(peaks []types.Peak, fanOut int) []uint64 {
	hashes := make([]uint64, 0, Count(len(peaks), fanOut))

	for i, anchor := range peaks {
		for j := i + 1; j < len(peaks) && j <= i+fanOut; j++ {
			target := peaks[j]

			hashes = append(hashes, Hash(
				truncate(anchor.Frequency),
				truncate(target.Frequency),
				truncate(target.Time-anchor.Time),
			))
		}
	}

	return hashes
}

// Count returns the number of hashes Generate produces for n peaks.
func Count(n, fanOut int) int {
	if fanOut <= 0 {
		return 0
	}

	total := 0
	for i := range n {
		total += min(fanOut, n-1-i)
	}

	return total
}

// truncate drops the fractional part, saturating to the uint32 range.
func truncate(v float64) uint32 {
	switch {
	case !(v > 0):
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
