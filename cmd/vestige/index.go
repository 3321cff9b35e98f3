//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/store"
)

var (
	errNotDirectory = errors.New("not a directory")
	errNoAudioFiles = errors.New("no audio files found")
)

//nolint:gochecknoglobals // configuration data, effectively const
var audioExtensions = []string{".wav", ".flac", ".m4a", ".mp3", ".ogg", ".opus", ".aac", ".aiff"}

// indexRecord is the outcome of fingerprinting one file.
type indexRecord struct {
	path string
	name string
	fp   *vestige.Fingerprint
	err  error
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Fingerprint every audio file under a folder into a collection",
		ArgsUsage: "<folder>",
		Flags: withFlags(
			pipelineFlags(),
			[]cli.Flag{
				databaseFlag(),
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"j"},
					Usage:   "Number of concurrent workers",
					Value:   runtime.NumCPU(),
				},
				&cli.IntFlag{
					Name:  "stream",
					Usage: "Audio stream index (0-based) for container files",
				},
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: folder path, got %d", cmd.NArg())
			}

			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}

			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			// Files are already processed concurrently.
			if opts.Workers == 0 {
				opts.Workers = 1
			}

			return runIndex(ctx, cmd, cmd.Args().First(), dbPath, opts, max(cmd.Int("workers"), 1))
		},
	}
}

func runIndex(
	ctx context.Context,
	cmd *cli.Command,
	folder, dbPath string,
	opts vestige.Options,
	workers int,
) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", folder, errNotDirectory)
	}

	files, err := collectAudioFiles(folder)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", folder, errNoAudioFiles)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to index (%d workers)\n", len(files), workers)

	startTime := time.Now()
	records := make([]indexRecord, len(files))

	var progress atomic.Int64

	workerPool := pool.New().WithContext(ctx).WithMaxGoroutines(workers)

	for idx, filePath := range files {
		workerPool.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fp, _, err := fingerprintFile(ctx, cmd, filePath, opts)
			records[idx] = indexRecord{path: filePath, name: clipName(filePath), fp: fp, err: err}

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)

			return nil
		})
	}

	if err = workerPool.Wait(); err != nil {
		return err
	}

	collection, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer collection.Close()

	failed := 0

	// Store in file order so duplicate names resolve deterministically.
	for _, record := range records {
		if record.err != nil {
			failed++

			slog.Error("indexing file", "file", record.path, "error", record.err)

			continue
		}

		if err = collection.Put(ctx, record.name, record.fp); err != nil {
			return fmt.Errorf("storing %s: %w", record.name, err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nDone: %d files in %s (%d failed)\n", len(files), elapsed.Truncate(time.Millisecond), failed)

	if failed == len(files) {
		return fmt.Errorf("%q: every file failed to index", folder)
	}

	return nil
}

func collectAudioFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
