// Package decode turns audio files into mono float samples for fingerprinting.
// WAV files are decoded natively, any other container goes through ffmpeg.
package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/farcloser/vestige/internal/integration/ffmpeg"
	"github.com/farcloser/vestige/internal/integration/ffprobe"
	"github.com/farcloser/vestige/internal/pcm"
	"github.com/farcloser/vestige/internal/types"
)

var ErrInvalidWAV = errors.New("invalid wav file")

// Audio is a decoded mono signal.
type Audio struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}

	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// File decodes the first audio stream of path.
func File(ctx context.Context, path string) (*Audio, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
		if err != nil {
			return nil, fmt.Errorf("opening file: %w", err)
		}
		defer file.Close()

		return WAV(file)
	}

	return Container(ctx, path, 0)
}

// WAV decodes a RIFF/WAVE stream, mixing all channels to mono.
func WAV(reader io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(reader)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	depth := types.BitDepth(decoder.BitDepth) //nolint:gosec // bit depth is a small constant

	maxVal, err := pcm.MaxValue(depth)
	if err != nil {
		return nil, err
	}

	if buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidWAV, buf.Format.SampleRate)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWAV, channels)
	}

	samples := make([]float64, len(buf.Data)/channels)

	for i := range samples {
		var sum float64

		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) / maxVal
		}

		samples[i] = sum / float64(channels)
	}

	slog.Debug("decode.WAV", "sample rate", buf.Format.SampleRate, "channels", channels, "bit depth", depth,
		"frames", len(samples))

	return &Audio{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// Container probes path with ffprobe and extracts the given audio stream as
// 32-bit mono PCM with ffmpeg.
func Container(ctx context.Context, path string, streamIndex int) (*Audio, error) {
	probeResult, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probing file: %w", err)
	}

	stream, err := probeResult.AudioStream(streamIndex)
	if err != nil {
		return nil, err
	}

	rate, err := stream.Rate()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	format := types.PCMFormat{SampleRate: rate, BitDepth: types.Depth32, Channels: 1}

	var pcmBuf bytes.Buffer

	if err = ffmpeg.ExtractStream(ctx, file, &pcmBuf, streamIndex, &format); err != nil {
		return nil, fmt.Errorf("extracting PCM: %w", err)
	}

	return Raw(&pcmBuf, format)
}

// Raw decodes raw interleaved PCM.
func Raw(reader io.Reader, format types.PCMFormat) (*Audio, error) {
	samples, err := pcm.ReadMono(reader, format)
	if err != nil {
		return nil, err
	}

	return &Audio{Samples: samples, SampleRate: format.SampleRate}, nil
}
