package ffmpeg

import (
	"strconv"
	"time"

	"github.com/farcloser/vestige/internal/types"
)

const (
	name    = "ffmpeg"
	timeout = 10 * time.Minute
)

func bitDepthToSpec(bitDepth types.BitDepth) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le
	//nolint:gosec // we fine, gosec
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

func codecFor(bitDepth types.BitDepth) string {
	return "pcm_" + bitDepthToSpec(bitDepth)
}
