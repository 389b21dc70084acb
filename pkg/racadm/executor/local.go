package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"

	"github.com/davidroman0O/racadm/errors"
	"github.com/rs/zerolog"
)

// LocalExecutor runs racadm as a child process on this machine
type LocalExecutor struct {
	logger zerolog.Logger
}

// NewLocalExecutor creates a LocalExecutor
func NewLocalExecutor(logger zerolog.Logger) *LocalExecutor {
	return &LocalExecutor{
		logger: logger.With().Str("component", "executor").Str("transport", "local").Logger(),
	}
}

// Execute implements Executor
func (l *LocalExecutor) Execute(ctx context.Context, program string, args []string) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.logger.Debug().Str("program", program).Strs("args", Redact(args)).Msg("running command")

	err := cmd.Run()
	result := &Result{
		Stdout: trimNewline(stdout.String()),
		Stderr: trimNewline(stderr.String()),
	}

	if err != nil {
		// racadm ran and exited non zero; the caller decides if that is fatal
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Killed by ctx
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.ErrCancelled, "racadm interrupted")
		}
		return nil, errors.WithContext(
			errors.Wrap(err, errors.ErrExecution, "failed to start racadm"),
			map[string]interface{}{"program": program},
		)
	}

	return result, nil
}
