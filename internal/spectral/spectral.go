package spectral

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/vestige/internal/types"
)

const (
	DefaultWindowSize = 2048
	DefaultHopSize    = 1024
)

var ErrInvalidWindow = errors.New("invalid analysis window")

// FrameCount returns how many full windows fit in n samples.
func FrameCount(n, windowSize, hopSize int) int {
	if windowSize <= 0 || hopSize <= 0 || n < windowSize {
		return 0
	}

	return (n-windowSize)/hopSize + 1
}

// Analyze slides a Hann-tapered window over samples and returns the magnitude of
// the non-negative half of each window's spectrum. Input shorter than one window
// yields an empty spectrogram.
// Windows are transformed by up to workers goroutines (0 means GOMAXPROCS);
// the result does not depend on the worker count.
func Analyze(samples []float64, windowSize, hopSize, workers int) (types.Spectrogram, error) {
	if err := Validate(windowSize, hopSize); err != nil {
		return nil, err
	}

	frames := FrameCount(len(samples), windowSize, hopSize)
	if frames == 0 {
		return types.Spectrogram{}, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, frames)
	chunk := (frames + workers - 1) / workers
	window := makeHannWindow(windowSize)
	spec := make(types.Spectrogram, frames)

	var group errgroup.Group

	for start := 0; start < frames; start += chunk {
		end := min(start+chunk, frames)

		group.Go(func() error {
			// fourier.FFT keeps internal work buffers, one plan per goroutine.
			fft := fourier.NewFFT(windowSize)
			fftIn := make([]float64, windowSize)

			var coeffs []complex128

			for frame := start; frame < end; frame++ {
				pos := frame * hopSize
				floats.MulTo(fftIn, samples[pos:pos+windowSize], window)

				coeffs = fft.Coefficients(coeffs, fftIn)
				spec[frame] = magnitudes(coeffs, windowSize/2)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Validate checks a window/hop pair.
func Validate(windowSize, hopSize int) error {
	if windowSize < 2 {
		return fmt.Errorf("%w: window size %d must be at least 2", ErrInvalidWindow, windowSize)
	}

	if hopSize <= 0 {
		return fmt.Errorf("%w: hop size %d must be positive", ErrInvalidWindow, hopSize)
	}

	if hopSize > windowSize {
		return fmt.Errorf("%w: hop size %d exceeds window size %d", ErrInvalidWindow, hopSize, windowSize)
	}

	return nil
}

// BinFrequency returns the centre frequency in Hz of an FFT bin.
func BinFrequency(bin, sampleRate, windowSize int) float64 {
	return float64(bin) * float64(sampleRate) / float64(windowSize)
}

// DominantBin returns the index of the loudest bin in a frame, or -1 if the frame is empty.
func DominantBin(frame []float64) int {
	if len(frame) == 0 {
		return -1
	}

	return floats.MaxIdx(frame)
}

// makeHannWindow builds the periodic Hann taper (denominator is size, not size-1).
func makeHannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}

	return window
}

func magnitudes(coeffs []complex128, bins int) []float64 {
	mags := make([]float64, bins)
	for i := range mags {
		c := coeffs[i]
		mags[i] = math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
	}

	return mags
}
