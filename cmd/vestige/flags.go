//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/types"
)

var (
	errInvalidArgCount = errors.New("expected exactly one argument: file path or \"-\" for stdin")
	errInvalidBitDepth = errors.New("must be 16, 24, or 32")
	errMissingDatabase = errors.New("--database is required")
)

// pipelineFlags configure fingerprint generation and matching. They override
// values read from --config.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML file with pipeline options",
		},
		&cli.IntFlag{
			Name:  "window-size",
			Usage: "Samples per FFT window",
			Value: vestige.DefaultOptions().WindowSize,
		},
		&cli.IntFlag{
			Name:  "hop-size",
			Usage: "Samples between consecutive windows",
			Value: vestige.DefaultOptions().HopSize,
		},
		&cli.IntFlag{
			Name:  "fft-workers",
			Usage: "Concurrent FFT workers per file (0 = number of CPUs)",
		},
		&cli.FloatFlag{
			Name:  "threshold",
			Usage: "Minimum spectral magnitude for a peak",
			Value: vestige.DefaultOptions().PeakThreshold,
		},
		&cli.IntFlag{
			Name:  "fan-out",
			Usage: "Target peaks paired with each anchor",
			Value: vestige.DefaultOptions().FanOut,
		},
		&cli.IntFlag{
			Name:  "match-threshold",
			Usage: "Score a match must exceed",
			Value: vestige.DefaultOptions().MatchThreshold,
		},
	}
}

// inputFlags describe raw PCM input. Setting --sample-rate, or reading from
// stdin, switches the input to raw interleaved little-endian PCM.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "sample-rate",
			Aliases: []string{"s"},
			Usage:   "Sample rate in Hz of raw PCM input (e.g., 44100, 48000)",
		},
		&cli.IntFlag{
			Name:    "bit-depth",
			Aliases: []string{"b"},
			Usage:   "Bit depth of raw PCM input (16, 24, or 32)",
			Value:   16,
		},
		&cli.IntFlag{
			Name:    "channels",
			Aliases: []string{"c"},
			Usage:   "Number of channels of raw PCM input",
			Value:   1,
		},
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based) for container files",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: console, json, markdown",
		Value:   "console",
	}
}

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Usage:   "Fingerprint collection (.db/.sqlite for SQLite, anything else for JSON)",
	}
}

func databasePath(cmd *cli.Command) (string, error) {
	path := cmd.String("database")
	if path == "" {
		return "", errMissingDatabase
	}

	return path, nil
}

// resolveOptions layers explicitly set flags over the config file, or the
// defaults when there is none.
func resolveOptions(cmd *cli.Command) (vestige.Options, error) {
	opts := vestige.DefaultOptions()

	if path := cmd.String("config"); path != "" {
		loaded, err := vestige.LoadOptions(path)
		if err != nil {
			return vestige.Options{}, fmt.Errorf("--config: %w", err)
		}

		opts = loaded
	}

	if cmd.IsSet("window-size") {
		opts.WindowSize = cmd.Int("window-size")
	}

	if cmd.IsSet("hop-size") {
		opts.HopSize = cmd.Int("hop-size")
	}

	if cmd.IsSet("fft-workers") {
		opts.Workers = cmd.Int("fft-workers")
	}

	if cmd.IsSet("threshold") {
		opts.PeakThreshold = cmd.Float("threshold")
	}

	if cmd.IsSet("fan-out") {
		opts.FanOut = cmd.Int("fan-out")
	}

	if cmd.IsSet("match-threshold") {
		opts.MatchThreshold = cmd.Int("match-threshold")
	}

	if err := opts.Validate(); err != nil {
		return vestige.Options{}, err
	}

	return opts, nil
}

func parsePCMFormat(cmd *cli.Command) (types.PCMFormat, error) {
	sampleRate := cmd.Int("sample-rate")
	channels := cmd.Int("channels")

	bitDepth, err := toBitDepth(cmd.Int("bit-depth"))
	if err != nil {
		return types.PCMFormat{}, fmt.Errorf("--bit-depth: %w", err)
	}

	if sampleRate <= 0 {
		return types.PCMFormat{}, fmt.Errorf("--sample-rate: must be positive, got %d", sampleRate)
	}

	if channels <= 0 {
		return types.PCMFormat{}, fmt.Errorf("--channels: must be positive, got %d", channels)
	}

	return types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   uint(channels), //nolint:gosec // validated positive value
	}, nil
}

func toBitDepth(v int) (types.BitDepth, error) {
	switch v {
	case 16:
		return types.Depth16, nil
	case 24:
		return types.Depth24, nil
	case 32:
		return types.Depth32, nil
	default:
		return 0, fmt.Errorf("%d: %w", v, errInvalidBitDepth)
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}

	return flags
}
