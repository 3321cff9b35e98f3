//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/decode"
)

// inputPath returns the single positional argument.
func inputPath(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	return cmd.Args().First(), nil
}

// loadAudio decodes source. Stdin ("-") and files given with --sample-rate
// are raw PCM, anything else is decoded from its container.
func loadAudio(ctx context.Context, cmd *cli.Command, source string) (*decode.Audio, error) {
	if source == "-" || cmd.IsSet("sample-rate") {
		format, err := parsePCMFormat(cmd)
		if err != nil {
			return nil, err
		}

		var reader io.Reader = os.Stdin

		if source != "-" {
			file, err := os.Open(source) //nolint:gosec // CLI tool opens user-specified audio files
			if err != nil {
				return nil, fmt.Errorf("cannot access %s: %w", source, err)
			}
			defer file.Close()

			reader = file
		}

		return decode.Raw(reader, format)
	}

	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", source, err)
	}

	if stream := cmd.Int("stream"); stream > 0 {
		return decode.Container(ctx, source, stream)
	}

	return decode.File(ctx, source)
}

// fingerprintFile decodes source and fingerprints it with opts.
func fingerprintFile(
	ctx context.Context,
	cmd *cli.Command,
	source string,
	opts vestige.Options,
) (*vestige.Fingerprint, *decode.Audio, error) {
	audio, err := loadAudio(ctx, cmd, source)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("decoded input", "source", source, "samples", len(audio.Samples), "sample_rate", audio.SampleRate)

	fp, err := vestige.Generate(audio.Samples, audio.SampleRate, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("fingerprinting %s: %w", source, err)
	}

	return fp, audio, nil
}
