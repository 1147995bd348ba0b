package trigger

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog"
)

// Runner invokes the external screening program as a subprocess. The child
// process alone is responsible for writing the result file; the runner only
// reports exit status and decoded output streams.
type Runner struct {
	Command  string
	LogLevel string
	logger   zerolog.Logger
}

// NewRunner creates a Runner for the given screening command.
func NewRunner(command string, logger zerolog.Logger) *Runner {
	return &Runner{
		Command:  command,
		LogLevel: "INFO",
		logger:   logger,
	}
}

// Run executes the screening program for a mode, writing results to
// resultsPath. A nonzero exit code is returned in exitCode, not err; err is
// reserved for failures to spawn or wait on the process.
func (r *Runner) Run(ctx context.Context, mode, resultsPath string) (exitCode int, stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, r.Command, mode, r.LogLevel, "--output", resultsPath)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	r.logger.Info().Str("mode", mode).Str("command", r.Command).Msg("starting screening subprocess")

	runErr := cmd.Run()

	stdout = DecodeProcessOutput(outBuf.Bytes())
	stderr = DecodeProcessOutput(errBuf.Bytes())

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return exitErr.ExitCode(), stdout, stderr, nil
		}
		return -1, stdout, stderr, runErr
	}
	return 0, stdout, stderr, nil
}
