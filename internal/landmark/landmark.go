// Package landmark finds local energy maxima in a spectrogram.
package landmark

import (
	"github.com/farcloser/vestige/internal/types"
)

const (
	DefaultThreshold = 0.1
	DefaultRadius    = 3
	DefaultBorder    = 10
)

// Options configures peak picking.
type Options struct {
	// Threshold is the minimum magnitude of a peak. Points below it are never peaks.
	Threshold float64
	// Radius is the half width of the neighbourhood a peak must strictly dominate,
	// in frames and bins (3 gives a 7x7 window).
	Radius int
	// Border is the number of frames and bins excluded on every edge of the scan.
	// The effective border is never smaller than Radius.
	Border int
}

// DefaultOptions returns the standard peak picking parameters.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Radius:    DefaultRadius,
		Border:    DefaultBorder,
	}
}

// Landmark is a peak in grid coordinates.
type Landmark struct {
	Frame     int
	Bin       int
	Magnitude float64
}

// Locate scans the spectrogram time-major, frequency-minor and returns every
// strict local maximum above the threshold.
func Locate(spec types.Spectrogram, opts Options) []Landmark {
	radius := max(opts.Radius, 0)
	// Keeping the border at least as wide as the neighbourhood guarantees every
	// neighbour read below is in range.
	border := max(opts.Border, radius)

	var found []Landmark

	for t := border; t < len(spec)-border; t++ {
		for f := border; f < len(spec[t])-border; f++ {
			if isLocalMaximum(spec, t, f, radius, opts.Threshold) {
				found = append(found, Landmark{Frame: t, Bin: f, Magnitude: spec[t][f]})
			}
		}
	}

	return found
}

// Extract locates peaks and converts them to (Hz, seconds).
func Extract(spec types.Spectrogram, sampleRate, windowSize, hopSize int, opts Options) []types.Peak {
	landmarks := Locate(spec, opts)
	peaks := make([]types.Peak, len(landmarks))

	for i, lm := range landmarks {
		peaks[i] = ToPeak(lm, sampleRate, windowSize, hopSize)
	}

	return peaks
}

// ToPeak converts grid coordinates to physical units.
func ToPeak(lm Landmark, sampleRate, windowSize, hopSize int) types.Peak {
	return types.Peak{
		Frequency: float64(lm.Bin) * float64(sampleRate) / (2 * float64(windowSize)),
		Time:      float64(lm.Frame) * float64(hopSize) / float64(sampleRate),
	}
}

func isLocalMaximum(spec types.Spectrogram, t, f, radius int, threshold float64) bool {
	current := spec[t][f]
	if current < threshold {
		return false
	}

	for dt := -radius; dt <= radius; dt++ {
		row := spec[t+dt]

		for df := -radius; df <= radius; df++ {
			if dt == 0 && df == 0 {
				continue
			}

			if row[f+df] >= current {
				return false
			}
		}
	}

	return true
}
