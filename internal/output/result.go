// Package output provides shared result serialization for vestige output.
package output

import (
	"github.com/farcloser/vestige/internal/audit/levels"
	"github.com/farcloser/vestige/internal/types"
)

// FingerprintToMap converts a fingerprint summary into the canonical map
// structure used for console, JSON and markdown output.
func FingerprintToMap(fp *types.Fingerprint, sampleRate int, duration float64) map[string]any {
	meta := map[string]any{
		"sample_rate": sampleRate,
		"duration_s":  duration,
		"peak_count":  0,
		"hash_count":  0,
	}

	if fp == nil {
		return meta
	}

	meta["peak_count"] = len(fp.Peaks)
	meta["hash_count"] = len(fp.Hashes)

	if len(fp.Peaks) > 0 {
		first, last := fp.Peaks[0], fp.Peaks[len(fp.Peaks)-1]
		meta["first_peak"] = PeakToMap(first)
		meta["last_peak"] = PeakToMap(last)
	}

	return meta
}

func PeakToMap(peak types.Peak) map[string]any {
	return map[string]any{
		"frequency_hz": peak.Frequency,
		"time_s":       peak.Time,
	}
}

// MatchToMap converts a match outcome into its map structure. Candidates are
// capped at limit entries; a non-positive limit keeps them all.
func MatchToMap(best string, matched bool, threshold int, scores []types.Score, limit int) map[string]any {
	meta := map[string]any{
		"matched":   matched,
		"threshold": threshold,
	}

	if matched {
		meta["match"] = best
	}

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}

	candidates := make([]any, 0, len(scores))
	for _, s := range scores {
		candidates = append(candidates, map[string]any{
			"name":  s.Name,
			"score": s.Score,
		})
	}

	meta["candidates"] = candidates

	return meta
}

// CollectionToMap lists the names of a stored collection.
func CollectionToMap(names []string) map[string]any {
	entries := make([]any, 0, len(names))
	for _, name := range names {
		entries = append(entries, name)
	}

	return map[string]any{
		"count": len(names),
		"names": entries,
	}
}

// LevelsToMap converts an input level profile into its map structure.
func LevelsToMap(r *levels.Result) map[string]any {
	return map[string]any{
		"peak_db":      r.PeakDb,
		"rms_db":       r.RmsDb,
		"dc_offset":    r.DCOffset,
		"leading_sec":  r.LeadingSec,
		"trailing_sec": r.TrailingSec,
		"silent_ratio": r.SilentRatio,
		"silent":       r.Silent,
	}
}
