package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige"
	"github.com/farcloser/vestige/internal/types"
)

func runWithFlags(t *testing.T, flags []cli.Flag, args []string, action cli.ActionFunc) error {
	t.Helper()

	cmd := &cli.Command{Name: "probe", Flags: flags, Action: action}

	return cmd.Run(context.Background(), append([]string{"probe"}, args...))
}

func TestResolveOptionsDefaults(t *testing.T) {
	var got vestige.Options

	err := runWithFlags(t, pipelineFlags(), nil, func(_ context.Context, cmd *cli.Command) error {
		var err error
		got, err = resolveOptions(cmd)

		return err
	})
	require.NoError(t, err)

	want := vestige.DefaultOptions()
	require.NoError(t, want.Validate())
	assert.Equal(t, want, got)
}

func TestResolveOptionsFlagsOverrideConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "vestige.yaml")
	require.NoError(t, os.WriteFile(config, []byte("window_size: 4096\nhop_size: 2048\nfan_out: 8\n"), 0o600))

	var got vestige.Options

	err := runWithFlags(t, pipelineFlags(),
		[]string{"--config", config, "--fan-out", "3", "--match-threshold", "25"},
		func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = resolveOptions(cmd)

			return err
		})
	require.NoError(t, err)

	assert.Equal(t, 4096, got.WindowSize)
	assert.Equal(t, 2048, got.HopSize)
	assert.Equal(t, 3, got.FanOut)
	assert.Equal(t, 25, got.MatchThreshold)
}

func TestResolveOptionsInvalid(t *testing.T) {
	err := runWithFlags(t, pipelineFlags(), []string{"--hop-size", "4096"}, func(_ context.Context, cmd *cli.Command) error {
		_, err := resolveOptions(cmd)

		return err
	})
	require.ErrorIs(t, err, vestige.ErrInvalidOptions)
}

func TestParsePCMFormat(t *testing.T) {
	var got types.PCMFormat

	err := runWithFlags(t, inputFlags(), []string{"-s", "48000", "-b", "24", "-c", "2"},
		func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = parsePCMFormat(cmd)

			return err
		})
	require.NoError(t, err)
	assert.Equal(t, types.PCMFormat{SampleRate: 48000, BitDepth: types.Depth24, Channels: 2}, got)

	err = runWithFlags(t, inputFlags(), []string{"-s", "48000", "-b", "8"},
		func(_ context.Context, cmd *cli.Command) error {
			_, err := parsePCMFormat(cmd)

			return err
		})
	require.ErrorIs(t, err, errInvalidBitDepth)

	err = runWithFlags(t, inputFlags(), nil, func(_ context.Context, cmd *cli.Command) error {
		_, err := parsePCMFormat(cmd)

		return err
	})
	require.Error(t, err)
}

func TestClipName(t *testing.T) {
	assert.Equal(t, "song", clipName("/music/album/song.flac"))
	assert.Equal(t, "take.2", clipName("take.2.wav"))
	assert.Equal(t, "noext", clipName("dir/noext"))
}

func TestCollectAudioFiles(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"b.wav", "a.FLAC", "notes.txt", "sub/c.m4a", "sub/deeper/d.mp3"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	files, err := collectAudioFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.FLAC"),
		filepath.Join(root, "b.wav"),
		filepath.Join(root, "sub", "c.m4a"),
		filepath.Join(root, "sub", "deeper", "d.mp3"),
	}, files)
}
