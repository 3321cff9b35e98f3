package levels

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FloorDb is reported for digital silence.
const FloorDb = -120.0

type Options struct {
	SilenceThresholdDb float64 // windows below this RMS are silent (default -60)
	WindowMs           int     // RMS window size (default 50)
}

func DefaultOptions() Options {
	return Options{
		SilenceThresholdDb: -60.0,
		WindowMs:           50,
	}
}

// Result describes the level profile of a mono signal.
type Result struct {
	PeakDb      float64 // sample peak in dBFS
	RmsDb       float64 // overall RMS in dBFS
	DCOffset    float64 // mean sample value (-1.0 to 1.0)
	LeadingSec  float64 // silence at start
	TrailingSec float64 // silence at end
	SilentRatio float64 // fraction of windows below the silence threshold
	Duration    float64 // seconds
	Silent      bool    // every window is below the silence threshold
}

// Measure profiles normalized mono samples. Clips that are silent, or mostly
// padding, yield few or no landmarks.
func Measure(samples []float64, sampleRate int, opts Options) *Result {
	if opts.SilenceThresholdDb == 0 {
		opts.SilenceThresholdDb = -60.0
	}

	if opts.WindowMs == 0 {
		opts.WindowMs = 50
	}

	result := &Result{PeakDb: FloorDb, RmsDb: FloorDb}

	if len(samples) == 0 || sampleRate <= 0 {
		result.Silent = true

		return result
	}

	count := float64(len(samples))

	result.Duration = count / float64(sampleRate)
	result.PeakDb = toDb(math.Max(math.Abs(floats.Max(samples)), math.Abs(floats.Min(samples))))
	result.RmsDb = toDb(math.Sqrt(floats.Dot(samples, samples) / count))
	result.DCOffset = floats.Sum(samples) / count

	threshold := math.Pow(10, opts.SilenceThresholdDb/20)
	windowLen := max(sampleRate*opts.WindowMs/1000, 1)

	var (
		windows       []int // window lengths, negated when silent
		silentWindows int
	)

	for start := 0; start < len(samples); start += windowLen {
		window := samples[start:min(start+windowLen, len(samples))]
		rms := math.Sqrt(floats.Dot(window, window) / float64(len(window)))

		if rms < threshold {
			silentWindows++
			windows = append(windows, -len(window))
		} else {
			windows = append(windows, len(window))
		}
	}

	var leading, trailing int

	for _, w := range windows {
		if w > 0 {
			break
		}

		leading -= w
	}

	for i := len(windows) - 1; i >= 0 && windows[i] < 0; i-- {
		trailing -= windows[i]
	}

	result.LeadingSec = float64(leading) / float64(sampleRate)
	result.TrailingSec = float64(trailing) / float64(sampleRate)
	result.SilentRatio = float64(silentWindows) / float64(len(windows))
	result.Silent = silentWindows == len(windows)

	return result
}

func toDb(linear float64) float64 {
	db := 20 * math.Log10(linear)
	if math.IsInf(db, -1) || db < FloorDb {
		return FloorDb
	}

	return db
}
