// Package testutils provides test infrastructure for vestige integration tests.
package testutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the vestige binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "vestige")

	return agar.Setup(binaryPath)
}

// Database returns a collection path living next to the fixture file, so that
// it shares the fixture's lifetime.
func Database(fixture, name string) string {
	return filepath.Join(filepath.Dir(fixture), name)
}
