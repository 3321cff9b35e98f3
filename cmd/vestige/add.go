//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige/internal/store"
)

var errMissingName = errors.New("--name is required when reading from stdin")

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Fingerprint an audio file and store it in a collection",
		ArgsUsage: "<file | ->",
		Flags: withFlags(
			pipelineFlags(),
			inputFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Name to store the fingerprint under (default: file name without extension)",
				},
				databaseFlag(),
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

			name := cmd.String("name")
			if name == "" {
				if source == "-" {
					return errMissingName
				}

				name = clipName(source)
			}

			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			fp, audio, err := fingerprintFile(ctx, cmd, source, opts)
			if err != nil {
				return err
			}

			collection, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer collection.Close()

			if err = collection.Put(ctx, name, fp); err != nil {
				return err
			}

			slog.Debug("stored fingerprint", "name", name, "database", dbPath, "hashes", len(fp.Hashes))

			meta := fingerprintMeta(fp, audio)
			meta["name"] = name

			return outputResult(source, meta, cmd.String("format"))
		},
	}
}

// clipName derives a collection name from a file path.
func clipName(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
