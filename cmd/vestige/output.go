//nolint:wrapcheck
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/audit/levels"
	"github.com/farcloser/vestige/internal/decode"
	"github.com/farcloser/vestige/internal/output"
	"github.com/farcloser/vestige/internal/types"
)

func outputResult(object string, meta map[string]any, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: object,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// matchSummary is the one-line verdict printed for a query.
func matchSummary(best types.Score, matched bool) string {
	if !matched {
		return "no match"
	}

	return fmt.Sprintf("%s (score %d)", best.Name, best.Score)
}

func fingerprintSummary(fp *vestige.Fingerprint, audio *decode.Audio) string {
	return fmt.Sprintf("%d peaks, %d hashes over %.1fs", len(fp.Peaks), len(fp.Hashes), audio.Duration())
}

// fingerprintMeta describes a fingerprint together with the level profile of
// the audio it came from.
func fingerprintMeta(fp *vestige.Fingerprint, audio *decode.Audio) map[string]any {
	profile := levels.Measure(audio.Samples, audio.SampleRate, levels.DefaultOptions())

	meta := output.FingerprintToMap(fp, audio.SampleRate, audio.Duration())
	meta["summary"] = fingerprintSummary(fp, audio)
	meta["levels"] = output.LevelsToMap(profile)

	if fp.Empty() {
		slog.Warn("no landmarks found",
			"duration", audio.Duration(),
			"peak_db", profile.PeakDb,
			"silent", profile.Silent,
		)
	}

	return meta
}
