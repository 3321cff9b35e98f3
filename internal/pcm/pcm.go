// Package pcm converts raw interleaved PCM into normalized mono samples.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/vestige/internal/types"
)

const (
	MaxValue16 = 32768.0      // 2^15, 16-bit signed PCM normalization divisor
	MaxValue24 = 8388608.0    // 2^23, 24-bit signed PCM normalization divisor
	MaxValue32 = 2147483648.0 // 2^31, 32-bit signed PCM normalization divisor
)

var (
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrInvalidChannels     = errors.New("invalid channel count")
)

// MaxValue returns the normalization divisor for a bit depth.
func MaxValue(depth types.BitDepth) (float64, error) {
	switch depth {
	case types.Depth16:
		return MaxValue16, nil
	case types.Depth24:
		return MaxValue24, nil
	case types.Depth32:
		return MaxValue32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}
}

// ReadMono reads little-endian signed PCM until EOF and averages channels into
// one sample per frame, normalized to [-1, 1]. A trailing partial frame is dropped.
func ReadMono(reader io.Reader, format types.PCMFormat) ([]float64, error) {
	maxVal, err := MaxValue(format.BitDepth)
	if err != nil {
		return nil, err
	}

	if format.Channels == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, format.Channels)
	}

	bytesPerSample := int(format.BitDepth / 8) //nolint:gosec // bit depth is a small constant
	numChannels := int(format.Channels)        //nolint:gosec // channel count is small
	frameSize := bytesPerSample * numChannels
	buf := make([]byte, frameSize*4096)

	var (
		samples []float64
		pending int
	)

	for {
		n, err := reader.Read(buf[pending:])
		n += pending

		completeFrames := (n / frameSize) * frameSize
		data := buf[:completeFrames]

		for i := 0; i < len(data); i += frameSize {
			var sum float64

			for ch := range numChannels {
				sum += decodeSample(data[i+ch*bytesPerSample:], format.BitDepth) / maxVal
			}

			samples = append(samples, sum/float64(numChannels))
		}

		// Keep a partial frame for the next read.
		pending = copy(buf, buf[completeFrames:n])

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	return samples, nil
}

func decodeSample(data []byte, depth types.BitDepth) float64 {
	switch depth {
	case types.Depth16:
		return float64(int16(binary.LittleEndian.Uint16(data))) //nolint:gosec // two's complement conversion for signed PCM samples
	case types.Depth24:
		raw := int32(data[0]) | int32(data[1])<<8 | int32(data[2])<<16
		if raw&0x800000 != 0 {
			raw |= ^0xFFFFFF
		}

		return float64(raw)
	case types.Depth32:
		return float64(int32(binary.LittleEndian.Uint32(data))) //nolint:gosec // two's complement conversion for signed PCM samples
	default:
		return 0
	}
}
