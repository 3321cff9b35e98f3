package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// PCMFormat describes raw interleaved little-endian PCM.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// Spectrogram is a time-ordered sequence of magnitude frames.
// Every frame has the same number of bins (half the analysis window).
type Spectrogram [][]float64

// Frames returns the number of time frames.
func (s Spectrogram) Frames() int {
	return len(s)
}

// Bins returns the number of frequency bins per frame, or 0 for an empty spectrogram.
func (s Spectrogram) Bins() int {
	if len(s) == 0 {
		return 0
	}

	return len(s[0])
}

// Peak is a local energy maximum in physical units.
type Peak struct {
	Frequency float64 // Hz
	Time      float64 // seconds
}

var errPeakShape = errors.New("peak must be a [frequency, time] pair")

// MarshalJSON encodes a peak as a [frequency, time] pair.
func (p Peak) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Frequency, p.Time})
}

// UnmarshalJSON decodes a [frequency, time] pair.
func (p *Peak) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	if len(pair) != 2 {
		return fmt.Errorf("%w: got %d values", errPeakShape, len(pair))
	}

	p.Frequency, p.Time = pair[0], pair[1]

	return nil
}

// Fingerprint is the landmark sequence of one clip and the hashes derived from it.
// Hashes are treated as an unordered multiset by the matcher.
type Fingerprint struct {
	Peaks  []Peak   `json:"peaks"`
	Hashes []uint64 `json:"hash"`
}

// Empty reports whether the fingerprint carries no hashes, and thus can never match.
func (f *Fingerprint) Empty() bool {
	return f == nil || len(f.Hashes) == 0
}

// Score is the overlap between a query and one stored fingerprint.
type Score struct {
	Name  string
	Score int
}
