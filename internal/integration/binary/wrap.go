// Package binary runs external tools with the error conventions shared by the integrations.
package binary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/farcloser/primordium/fault"
)

// Require resolves binName in the system PATH.
func Require(binName string) (string, error) {
	path, err := exec.LookPath(binName)
	if err != nil {
		return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, binName)
	}

	return path, nil
}

// Run executes binName with args, bounded by timeout. A nil stdin reads nothing,
// a nil stdout discards output. Stderr is attached to the returned error.
func Run(
	ctx context.Context,
	binName string,
	timeout time.Duration,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
) error {
	path, err := Require(binName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...) //nolint:gosec // arguments are built by the integrations

	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %v", fault.ErrTimeout, binName, timeout)
		}

		return fmt.Errorf("%w: %s: %s: %w", fault.ErrCommandFailure, binName, stderr.String(), err)
	}

	return nil
}
