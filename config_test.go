package vestige_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farcloser/primordium/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/vestige"
)

func TestParseOptionsOverridesDefaults(t *testing.T) {
	opts, err := vestige.ParseOptions(strings.NewReader(`
window_size: 4096
hop_size: 512
fan_out: 8
match_threshold: 25
`))
	require.NoError(t, err)

	want := vestige.DefaultOptions()
	want.WindowSize = 4096
	want.HopSize = 512
	want.FanOut = 8
	want.MatchThreshold = 25

	assert.Equal(t, want, opts)
}

func TestParseOptionsEmptyDocument(t *testing.T) {
	opts, err := vestige.ParseOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, vestige.DefaultOptions(), opts)
}

func TestParseOptionsRejectsUnknownKeys(t *testing.T) {
	_, err := vestige.ParseOptions(strings.NewReader("windowsize: 10\n"))
	require.ErrorIs(t, err, vestige.ErrInvalidOptions)
}

func TestParseOptionsValidates(t *testing.T) {
	_, err := vestige.ParseOptions(strings.NewReader("window_size: 512\nhop_size: 1024\n"))
	require.ErrorIs(t, err, vestige.ErrInvalidOptions)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vestige.yaml")
	require.NoError(t, os.WriteFile(path, []byte("peak_threshold: 0.5\n"), 0o600))

	opts, err := vestige.LoadOptions(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, opts.PeakThreshold, 0)

	_, err = vestige.LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, fault.ErrReadFailure)
}
