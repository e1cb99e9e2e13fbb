package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner runs external programs. Discovery only ever needs to run a tool
// and read what it printed, so that is all the interface offers.
type CommandRunner interface {
	// RunCommandWithOutput runs name with args and returns its stdout and stderr.
	// A non-zero exit is reported as an error; the output is returned either way.
	RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// GetExitCode extracts the exit code from an error returned by RunCommandWithOutput
	GetExitCode(err error) int
}

// OSCommandRunner runs programs through os/exec
type OSCommandRunner struct{}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// RunCommandWithOutput implements CommandRunner.
// Arguments are passed separately, never through a shell.
func (r *OSCommandRunner) RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return outBuf.String(), errBuf.String(), fmt.Errorf("run %s: %w", name, err)
	}

	return outBuf.String(), errBuf.String(), nil
}

// GetExitCode returns the process exit status, 0 for nil and -1 when the
// program never produced one (not found, killed by a signal)
func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
