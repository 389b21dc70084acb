// Package racadm drives a Dell iDRAC through the racadm command line utility
package racadm

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/davidroman0O/racadm/errors"
	"github.com/davidroman0O/racadm/pkg/racadm/executor"
	"github.com/davidroman0O/racadm/pkg/racadm/parser"
	"github.com/davidroman0O/racadm/pkg/racadm/poller"
	"github.com/rs/zerolog"
)

const (
	cmdEnableIPMI  = "set iDRAC.IPMILan.Enable 1"
	cmdDisableIPMI = "set iDRAC.IPMILan.Enable 0"
	cmdJobView     = "jobqueue view -i "
	cmdInventory   = "swinventory"
)

// Tool composes command execution, output parsing and job polling
type Tool struct {
	executor      executor.Executor
	binary        string
	shareUser     string
	sharePassword string
	poll          poller.Config
	strict        bool
	concurrency   int
	sleep         poller.SleepFunc
	logger        zerolog.Logger
}

// Option configures a Tool
type Option func(*Tool)

// WithBinary sets the racadm path
func WithBinary(path string) Option {
	return func(t *Tool) {
		if path != "" {
			t.binary = path
		}
	}
}

// WithShareDefaults sets the share credentials used when a ShareConfig has none
func WithShareDefaults(user, password string) Option {
	return func(t *Tool) {
		t.shareUser = user
		t.sharePassword = password
	}
}

// WithPollConfig sets the retry policy used when waiting for jobs
func WithPollConfig(cfg poller.Config) Option {
	return func(t *Tool) {
		t.poll = cfg
	}
}

// WithStrictParsing makes job status parsing fail on missing or unknown lines
func WithStrictParsing(strict bool) Option {
	return func(t *Tool) {
		t.strict = strict
	}
}

// WithConcurrency bounds the number of jobs WaitJobs polls at once
func WithConcurrency(n int) Option {
	return func(t *Tool) {
		t.concurrency = n
	}
}

// WithSleep replaces the wait between job polls
func WithSleep(sleep poller.SleepFunc) Option {
	return func(t *Tool) {
		t.sleep = sleep
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tool) {
		t.logger = logger
	}
}

// New creates a Tool running racadm through exec
func New(exec executor.Executor, opts ...Option) *Tool {
	t := &Tool{
		executor:      exec,
		binary:        DefaultBinary,
		shareUser:     DefaultShareUser,
		sharePassword: DefaultSharePassword,
		poll:          poller.DefaultConfig(),
		concurrency:   4,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tool) log() *zerolog.Logger {
	l := t.logger.With().Str("component", "racadm").Logger()
	return &l
}

// buildArgs splits command on single spaces and prefixes the remote session
// flags when a host is given
func buildArgs(target Target, command string) []string {
	args := strings.Split(command, " ")
	if target.Host == "" {
		return args
	}
	return append([]string{"-r", target.Host, "-u", target.User, "-p", target.Password}, args...)
}

// RunCommand runs one racadm command. Anything printed on stderr, or an exit
// code outside AcceptedExitCodes, rejects the command.
func (t *Tool) RunCommand(ctx context.Context, target Target, command string) (*CommandResult, error) {
	// Build the racadm arguments
	args := buildArgs(target, command)
	op := "racadm " + strings.SplitN(command, " ", 2)[0]

	res, err := t.executor.Execute(ctx, t.binary, args)
	if err != nil {
		return nil, errors.WithOp(err, op)
	}

	// racadm reports some failures on stderr with a zero exit code
	if res.Stderr != "" || !slices.Contains(AcceptedExitCodes, res.ExitCode) {
		t.log().Warn().
			Str("host", target.Host).
			Strs("command", executor.Redact(strings.Split(command, " "))).
			Int("exitCode", res.ExitCode).
			Str("stderr", res.Stderr).
			Msg("racadm rejected command")

		message := strings.TrimSpace(res.Stderr)
		if message == "" {
			message = fmt.Sprintf("exit code %d", res.ExitCode)
		}
		return nil, errors.WithContext(
			&errors.Error{Code: errors.ErrCommandRejected, Message: message, Op: op},
			map[string]interface{}{
				"stdout":        res.Stdout,
				"stderr":        res.Stderr,
				"exitCode":      res.ExitCode,
				"acceptedCodes": AcceptedExitCodes,
			},
		)
	}

	return res, nil
}

// EnableIPMI turns on IPMI over LAN
func (t *Tool) EnableIPMI(ctx context.Context, target Target) error {
	_, err := t.RunCommand(ctx, target, cmdEnableIPMI)
	return err
}

// DisableIPMI turns off IPMI over LAN
func (t *Tool) DisableIPMI(ctx context.Context, target Target) error {
	_, err := t.RunCommand(ctx, target, cmdDisableIPMI)
	return err
}

// GetJobStatus reads the current state of a job from the job queue
func (t *Tool) GetJobStatus(ctx context.Context, target Target, jobID string) (*parser.JobStatus, error) {
	res, err := t.RunCommand(ctx, target, cmdJobView+jobID)
	if err != nil {
		return nil, err
	}

	if t.strict {
		return parser.ParseJobStatusStrict(res.Stdout)
	}
	return parser.ParseJobStatus(res.Stdout), nil
}

func (t *Tool) newPoller(target Target, initialDelay time.Duration) *poller.Poller {
	cfg := t.poll
	cfg.InitialDelay = initialDelay

	opts := []poller.Option{poller.WithLogger(t.logger)}
	if t.sleep != nil {
		opts = append(opts, poller.WithSleep(t.sleep))
	}

	fetch := func(ctx context.Context, jobID string) (*parser.JobStatus, error) {
		return t.GetJobStatus(ctx, target, jobID)
	}
	return poller.New(fetch, cfg, opts...)
}

// WaitJobDone polls a job until it reaches a terminal state
func (t *Tool) WaitJobDone(ctx context.Context, target Target, jobID string, initialDelay time.Duration) (*poller.Outcome, error) {
	return t.newPoller(target, initialDelay).Wait(ctx, jobID)
}

// SetBIOSConfig imports a server configuration profile and waits for the
// resulting job. Share credentials fall back to the Tool defaults.
func (t *Tool) SetBIOSConfig(ctx context.Context, target Target, share ShareConfig) (*poller.Outcome, error) {
	file := parser.ParsePath(share.FilePath)

	command, err := t.importCommand(file, share)
	if err != nil {
		return nil, err
	}

	// Copy the profile onto the station first when asked to
	if share.StageFrom != "" {
		if err := t.stage(ctx, file, share.StageFrom); err != nil {
			return nil, err
		}
	}

	res, err := t.RunCommand(ctx, target, command)
	if err != nil {
		return nil, err
	}

	// The import runs as a job; its id is only printed in the usage hint
	jobID, err := parser.ParseJobID(res.Stdout)
	if err != nil {
		return nil, errors.WithContext(errors.WithOp(err, "racadm set"), map[string]interface{}{"stdout": res.Stdout})
	}

	t.log().Info().Str("host", target.Host).Str("job", jobID).Str("file", share.FilePath).Msg("configuration import queued")
	return t.WaitJobDone(ctx, target, jobID, t.poll.InitialDelay)
}

// ApplyConfigurationFile is SetBIOSConfig
func (t *Tool) ApplyConfigurationFile(ctx context.Context, target Target, share ShareConfig) (*poller.Outcome, error) {
	return t.SetBIOSConfig(ctx, target, share)
}

func (t *Tool) importCommand(file parser.PathDescriptor, share ShareConfig) (string, error) {
	user, password := share.User, share.Password
	if user == "" {
		user = t.shareUser
	}
	if password == "" {
		password = t.sharePassword
	}

	switch file.Style {
	case parser.PathStyleRemote:
		return "set -f " + file.Name + " -t xml -u " + user + " -p " + password + " -l " + file.Path, nil
	case parser.PathStyleLocal:
		return "set -f " + file.Path + "/" + file.Name + " -t xml", nil
	}

	return "", errors.WithContext(
		&errors.Error{Code: errors.ErrValidation, Message: "XML file path is invalid", Op: "racadm set"},
		map[string]interface{}{"filePath": share.FilePath},
	)
}

func (t *Tool) stage(ctx context.Context, file parser.PathDescriptor, localPath string) error {
	if file.Style != parser.PathStyleLocal {
		return errors.New(errors.ErrValidation, "only local configuration paths can be staged")
	}

	uploader, ok := t.executor.(executor.Uploader)
	if !ok {
		return errors.New(errors.ErrValidation, "executor cannot stage files")
	}

	return errors.WithOp(uploader.UploadFile(ctx, localPath, file.Path+"/"+file.Name), "stage configuration file")
}

// GetSoftwareInventory lists firmware components and their versions
func (t *Tool) GetSoftwareInventory(ctx context.Context, target Target) (parser.SoftwareInventory, error) {
	res, err := t.RunCommand(ctx, target, cmdInventory)
	if err != nil {
		return nil, err
	}

	inventory, err := parser.ParseSoftwareInventory(res.Stdout)
	if err != nil {
		return nil, errors.WithOp(err, "racadm swinventory")
	}
	return inventory, nil
}
