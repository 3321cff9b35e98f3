//nolint:wrapcheck
package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/output"
	"github.com/farcloser/vestige/internal/store"
)

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Identify an audio clip against a collection",
		ArgsUsage: "<file | ->",
		Flags: withFlags(
			pipelineFlags(),
			inputFlags(),
			[]cli.Flag{
				databaseFlag(),
				&cli.IntFlag{
					Name:  "top",
					Usage: "Number of ranked candidates to include with --debug (0 = all)",
					Value: 5,
				},
				&cli.BoolFlag{
					Name:    "debug",
					Aliases: []string{"D"},
					Usage:   "Include ranked candidate scores in output",
				},
				formatFlag(),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source, err := inputPath(cmd)
			if err != nil {
				return err
			}

			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}

			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			matcher, err := loadMatcher(ctx, dbPath, opts)
			if err != nil {
				return err
			}

			query, _, err := fingerprintFile(ctx, cmd, source, opts)
			if err != nil {
				return err
			}

			scores := matcher.Scores(query)
			name, matched := matcher.FindBestMatch(query)

			var best vestige.Score
			if len(scores) > 0 {
				best = scores[0]
			}

			slog.Debug("matched query",
				"source", source,
				"candidates", len(scores),
				"best", best.Name,
				"score", best.Score,
				"matched", matched,
			)

			meta := map[string]any{
				"summary": matchSummary(best, matched),
			}

			if cmd.Bool("debug") {
				meta = output.MatchToMap(name, matched, matcher.Threshold(), scores, cmd.Int("top"))
				meta["summary"] = matchSummary(best, matched)
			}

			return outputResult(source, meta, cmd.String("format"))
		},
	}
}

// loadMatcher reads a stored collection into an in-memory matcher.
func loadMatcher(ctx context.Context, dbPath string, opts vestige.Options) (*vestige.Matcher, error) {
	collection, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer collection.Close()

	entries, err := collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	matcher := vestige.NewMatcher(opts)
	for name, fp := range entries {
		matcher.Add(name, fp)
	}

	slog.Debug("loaded collection", "database", dbPath, "entries", matcher.Len())

	return matcher, nil
}
