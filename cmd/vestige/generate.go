//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/vestige"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Fingerprint an audio file",
		ArgsUsage: "<file | ->",
		Flags: withFlags(
			pipelineFlags(),
			inputFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Write the fingerprint document to this file (\"-\" for stdout)",
				},
				formatFlag(),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source, err := inputPath(cmd)
			if err != nil {
				return err
			}

			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			fp, audio, err := fingerprintFile(ctx, cmd, source, opts)
			if err != nil {
				return err
			}

			if dest := cmd.String("output"); dest != "" {
				if err = writeDocument(dest, fp); err != nil {
					return err
				}

				// The document owns stdout.
				if dest == "-" {
					return nil
				}
			}

			return outputResult(source, fingerprintMeta(fp, audio), cmd.String("format"))
		},
	}
}

// writeDocument writes the JSON fingerprint document to dest, "-" being stdout.
func writeDocument(dest string, fp *vestige.Fingerprint) error {
	document, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	document = append(document, '\n')

	if dest == "-" {
		_, err = os.Stdout.Write(document)

		return err
	}

	if err = os.WriteFile(dest, document, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	return nil
}
