package ffmpeg

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/farcloser/vestige/internal/integration/binary"
	"github.com/farcloser/vestige/internal/types"
)

// ExtractStream decodes one audio stream of a container into raw little-endian PCM.
// format.BitDepth selects the sample encoding; a non-zero format.Channels asks
// ffmpeg to remix to that many channels, and a non-zero format.SampleRate to resample.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	streamIndex int,
	format *types.PCMFormat,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "start")

	if err := binary.Run(ctx, name, timeout, extractArgs(streamIndex, format), input, output); err != nil {
		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error", "error", err)

		return err
	}

	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "done")

	return nil
}

func extractArgs(streamIndex int, format *types.PCMFormat) []string {
	args := []string{
		"-i", "-",
		"-map", "0:a:" + strconv.Itoa(streamIndex),
	}

	if format.Channels > 0 {
		args = append(args, "-ac", strconv.FormatUint(uint64(format.Channels), 10))
	}

	if format.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(format.SampleRate))
	}

	return append(args,
		"-f", bitDepthToSpec(format.BitDepth),
		"-acodec", codecFor(format.BitDepth),
		"-v", "quiet",
		"-",
	)
}
