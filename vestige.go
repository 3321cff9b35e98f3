package vestige

import (
	"io"
	"log/slog"

	"github.com/farcloser/vestige/internal/hashing"
	"github.com/farcloser/vestige/internal/landmark"
	"github.com/farcloser/vestige/internal/matcher"
	"github.com/farcloser/vestige/internal/pcm"
	"github.com/farcloser/vestige/internal/spectral"
	"github.com/farcloser/vestige/internal/types"
)

/*
Usage:

opts := vestige.DefaultOptions()

fp, err := vestige.Generate(samples, 44100, opts)

m := vestige.NewMatcher(opts)
m.Add("clip1", fp)

if name, ok := m.FindBestMatch(query); ok {
    fmt.Println("Match found:", name)
}

// Ranked candidates, including those under the threshold.
for _, s := range m.Scores(query) {
    fmt.Printf("%s: %d\n", s.Name, s.Score)
}

*/

type (
	// Fingerprint is the peak sequence of a clip plus the hashes derived from it.
	Fingerprint = types.Fingerprint
	// Peak is a landmark in Hz and seconds.
	Peak = types.Peak
	// Spectrogram is a time-ordered sequence of magnitude frames.
	Spectrogram = types.Spectrogram
	// PCMFormat describes raw interleaved PCM input.
	PCMFormat = types.PCMFormat
	// Score is the overlap of a query with one stored fingerprint.
	Score = types.Score
	// Matcher is a named fingerprint collection.
	Matcher = matcher.Matcher
)

// NewMatcher returns an empty matcher using the configured match threshold.
func NewMatcher(opts Options) *Matcher {
	applyDefaults(&opts)

	return matcher.New(opts.MatchThreshold)
}

// Analyze computes the magnitude spectrogram of mono samples.
func Analyze(samples []float64, opts Options) (Spectrogram, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return spectral.Analyze(samples, opts.WindowSize, opts.HopSize, opts.Workers)
}

// ExtractPeaks finds the landmarks of a spectrogram in physical units.
func ExtractPeaks(spec Spectrogram, sampleRate int, opts Options) ([]Peak, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return landmark.Extract(spec, sampleRate, opts.WindowSize, opts.HopSize, opts.landmarkOptions()), nil
}

// GenerateHashes pairs peaks with their followers and hashes every pair.
func GenerateHashes(peaks []Peak, opts Options) []uint64 {
	applyDefaults(&opts)

	return hashing.Generate(peaks, opts.FanOut)
}

// Generate fingerprints mono samples in [-1, 1] at sampleRate. Input shorter
// than one window produces an empty, valid fingerprint.
func Generate(samples []float64, sampleRate int, opts Options) (*Fingerprint, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	spec, err := spectral.Analyze(samples, opts.WindowSize, opts.HopSize, opts.Workers)
	if err != nil {
		return nil, err
	}

	peaks := landmark.Extract(spec, sampleRate, opts.WindowSize, opts.HopSize, opts.landmarkOptions())
	hashes := hashing.Generate(peaks, opts.FanOut)

	slog.Debug("vestige.Generate",
		"samples", len(samples),
		"frames", spec.Frames(),
		"bins", spec.Bins(),
		"peaks", len(peaks),
		"hashes", len(hashes),
	)

	return &Fingerprint{Peaks: peaks, Hashes: hashes}, nil
}

// GenerateFromPCM decodes raw little-endian PCM, mixes it to mono and fingerprints it.
func GenerateFromPCM(reader io.Reader, format PCMFormat, opts Options) (*Fingerprint, error) {
	samples, err := pcm.ReadMono(reader, format)
	if err != nil {
		return nil, err
	}

	return Generate(samples, format.SampleRate, opts)
}
