// Package poller drives an asynchronous controller job to a terminal state
package poller

import (
	"context"
	"time"

	"github.com/davidroman0O/racadm/errors"
	"github.com/davidroman0O/racadm/pkg/racadm/parser"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxRetries is the number of re-polls after the first fetch
const DefaultMaxRetries = 10

// Messages carried by job errors
const (
	MsgJobFailed          = "Job Failed during process"
	MsgJobTimeout         = "Job Timeout"
	MsgJobStatusIncorrect = "Job status is incorrect"
)

// OutcomeKind is the terminal state of a poll run
type OutcomeKind string

const (
	OutcomeCompleted    OutcomeKind = "Completed"
	OutcomeFailed       OutcomeKind = "Failed"
	OutcomeTimedOut     OutcomeKind = "TimedOut"
	OutcomeInvalidState OutcomeKind = "InvalidState"
	OutcomeCancelled    OutcomeKind = "Cancelled"
)

// Outcome is the result of a poll run
type Outcome struct {
	Kind OutcomeKind
	// Status is the last status fetched; nil when cancelled before the first fetch
	Status *parser.JobStatus
	// Attempts counts status fetches
	Attempts int
}

// FetchFunc returns the current status of a job. An error is fatal to the
// run, and so is a nil status.
type FetchFunc func(ctx context.Context, jobID string) (*parser.JobStatus, error)

// SleepFunc suspends for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the backoff policy
type Config struct {
	// MaxRetries is the number of re-polls allowed after the first fetch
	MaxRetries int

	// InitialDelay is the wait before the first re-poll. Zero keeps every wait at zero.
	InitialDelay time.Duration

	// MaxDelay caps the doubled delay; zero means uncapped
	MaxDelay time.Duration
}

// DefaultConfig returns the policy racadm jobs are normally polled with
func DefaultConfig() Config {
	return Config{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: time.Second,
	}
}

// Poller polls one job at a time; separate runs share no state
type Poller struct {
	fetch  FetchFunc
	config Config
	sleep  SleepFunc
	logger zerolog.Logger
}

// Option configures a Poller
type Option func(*Poller)

// WithSleep replaces the timer based wait
func WithSleep(sleep SleepFunc) Option {
	return func(p *Poller) {
		p.sleep = sleep
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger.With().Str("component", "poller").Logger()
	}
}

// New creates a Poller around a status fetcher
func New(fetch FetchFunc, cfg Config, opts ...Option) *Poller {
	p := &Poller{
		fetch:  fetch,
		config: cfg,
		sleep:  sleepContext,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls jobID until it completes, fails, reports an unknown status, runs
// out of retries or ctx ends. Completion returns a nil error; every other
// outcome is returned together with a coded error carrying the last status.
func (p *Poller) Wait(ctx context.Context, jobID string) (*Outcome, error) {
	logger := p.logger.With().Str("job", jobID).Str("run", uuid.NewString()).Logger()

	outcome := &Outcome{}
	delay := p.config.InitialDelay

	for attempt := 0; ; attempt++ {
		// Check if context is cancelled
		if err := ctx.Err(); err != nil {
			return p.cancelled(outcome, jobID, err)
		}

		status, err := p.fetch(ctx, jobID)
		outcome.Attempts++
		if err != nil {
			// A fetch aborted by ctx is a cancellation, not a command failure
			if ctx.Err() != nil {
				return p.cancelled(outcome, jobID, ctx.Err())
			}
			return nil, errors.WithOp(err, "poll job "+jobID)
		}
		if status == nil {
			return nil, errors.WithContext(
				&errors.Error{Code: errors.ErrExecution, Message: "status fetch returned no job status", Op: "poll job " + jobID},
				map[string]interface{}{"attempts": outcome.Attempts},
			)
		}
		outcome.Status = status

		logger.Debug().
			Int("attempt", attempt).
			Str("status", string(status.Status)).
			Str("percent", status.PercentComplete).
			Msg("fetched job status")

		switch status.Status {
		case parser.JobStateCompleted:
			outcome.Kind = OutcomeCompleted
			logger.Info().Int("attempts", outcome.Attempts).Msg("job completed")
			return outcome, nil

		case parser.JobStateFailed:
			outcome.Kind = OutcomeFailed
			return outcome, jobError(errors.ErrJobFailed, MsgJobFailed, jobID, outcome)

		case parser.JobStateRunning:
			if attempt >= p.config.MaxRetries {
				outcome.Kind = OutcomeTimedOut
				return outcome, jobError(errors.ErrJobTimedOut, MsgJobTimeout, jobID, outcome)
			}

			// Wait before retrying, then back off
			if err := p.sleep(ctx, delay); err != nil {
				return p.cancelled(outcome, jobID, err)
			}
			delay = p.nextDelay(delay)

		default:
			outcome.Kind = OutcomeInvalidState
			return outcome, jobError(errors.ErrJobInvalidState, MsgJobStatusIncorrect, jobID, outcome)
		}
	}
}

func (p *Poller) nextDelay(delay time.Duration) time.Duration {
	delay *= 2
	if p.config.MaxDelay > 0 && delay > p.config.MaxDelay {
		return p.config.MaxDelay
	}
	return delay
}

func (p *Poller) cancelled(outcome *Outcome, jobID string, cause error) (*Outcome, error) {
	outcome.Kind = OutcomeCancelled
	p.logger.Warn().Str("job", jobID).Err(cause).Msg("job polling cancelled")
	return outcome, errors.WithContext(
		&errors.Error{Code: errors.ErrCancelled, Message: "job polling cancelled", Op: "poll job " + jobID, Cause: cause},
		map[string]interface{}{"jobStatus": outcome.Status, "attempts": outcome.Attempts},
	)
}

func jobError(code errors.ErrorCode, message, jobID string, outcome *Outcome) error {
	return errors.WithContext(
		&errors.Error{Code: code, Message: message, Op: "poll job " + jobID},
		map[string]interface{}{"jobStatus": outcome.Status, "attempts": outcome.Attempts},
	)
}

// JobStatusOf returns the job status carried by a poller error
func JobStatusOf(err error) *parser.JobStatus {
	status, _ := errors.GetContext(err)["jobStatus"].(*parser.JobStatus)
	return status
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
