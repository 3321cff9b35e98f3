package vestige

import (
	"errors"
	"fmt"

	"github.com/farcloser/vestige/internal/hashing"
	"github.com/farcloser/vestige/internal/landmark"
	"github.com/farcloser/vestige/internal/matcher"
	"github.com/farcloser/vestige/internal/spectral"
)

var ErrInvalidOptions = errors.New("invalid options")

// Options configures the fingerprinting pipeline and the matcher.
// Zero-valued fields take their default.
type Options struct {
	// Spectral analysis.
	WindowSize int `yaml:"window_size"` // samples per FFT window (default: 2048)
	HopSize    int `yaml:"hop_size"`    // samples between window starts (default: 1024)
	Workers    int `yaml:"workers"`     // concurrent FFT workers (default: GOMAXPROCS)

	// Peak picking.
	PeakThreshold      float64 `yaml:"peak_threshold"`      // minimum peak magnitude (default: 0.1)
	NeighborhoodRadius int     `yaml:"neighborhood_radius"` // half width of the dominance window (default: 3)
	BorderExclusion    int     `yaml:"border_exclusion"`    // frames/bins skipped at every edge (default: 10)

	// Hashing.
	FanOut int `yaml:"fan_out"` // targets paired with each anchor (default: 5)

	// Matching.
	MatchThreshold int `yaml:"match_threshold"` // score a match must exceed (default: 10)
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		WindowSize:         spectral.DefaultWindowSize,
		HopSize:            spectral.DefaultHopSize,
		PeakThreshold:      landmark.DefaultThreshold,
		NeighborhoodRadius: landmark.DefaultRadius,
		BorderExclusion:    landmark.DefaultBorder,
		FanOut:             hashing.DefaultFanOut,
		MatchThreshold:     matcher.DefaultThreshold,
	}
}

// Validate applies defaults and checks the resulting configuration.
func (opts *Options) Validate() error {
	applyDefaults(opts)

	if err := spectral.Validate(opts.WindowSize, opts.HopSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if opts.PeakThreshold < 0 {
		return fmt.Errorf("%w: peak threshold %g must not be negative", ErrInvalidOptions, opts.PeakThreshold)
	}

	if opts.NeighborhoodRadius < 0 {
		return fmt.Errorf("%w: neighborhood radius %d must not be negative", ErrInvalidOptions, opts.NeighborhoodRadius)
	}

	if opts.BorderExclusion < opts.NeighborhoodRadius {
		return fmt.Errorf("%w: border exclusion %d is narrower than neighborhood radius %d",
			ErrInvalidOptions, opts.BorderExclusion, opts.NeighborhoodRadius)
	}

	if opts.FanOut < 0 {
		return fmt.Errorf("%w: fan-out %d must not be negative", ErrInvalidOptions, opts.FanOut)
	}

	if opts.MatchThreshold < 0 {
		return fmt.Errorf("%w: match threshold %d must not be negative", ErrInvalidOptions, opts.MatchThreshold)
	}

	return nil
}

func validateSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidOptions, sampleRate)
	}

	return nil
}

func (opts Options) landmarkOptions() landmark.Options {
	return landmark.Options{
		Threshold: opts.PeakThreshold,
		Radius:    opts.NeighborhoodRadius,
		Border:    opts.BorderExclusion,
	}
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.WindowSize == 0 {
		opts.WindowSize = defaults.WindowSize
	}

	if opts.HopSize == 0 {
		opts.HopSize = defaults.HopSize
	}

	if opts.PeakThreshold == 0 {
		opts.PeakThreshold = defaults.PeakThreshold
	}

	if opts.NeighborhoodRadius == 0 {
		opts.NeighborhoodRadius = defaults.NeighborhoodRadius
	}

	if opts.BorderExclusion == 0 {
		opts.BorderExclusion = defaults.BorderExclusion
	}

	if opts.FanOut == 0 {
		opts.FanOut = defaults.FanOut
	}

	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = defaults.MatchThreshold
	}
}
