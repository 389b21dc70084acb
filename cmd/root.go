// Package cmd implements the racadmctl command line
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidroman0O/racadm/internal/log"
	"github.com/davidroman0O/racadm/pkg/config"
	"github.com/davidroman0O/racadm/pkg/racadm"
	"github.com/davidroman0O/racadm/pkg/racadm/executor"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ExecutorFactory opens the transport racadm runs through. The returned
// function releases it.
type ExecutorFactory func(cfg *config.ConfigFile, logger zerolog.Logger) (executor.Executor, func(), error)

// DefaultExecutorFactory runs racadm over SSH when the configuration has an
// ssh section and as a local process otherwise
func DefaultExecutorFactory(cfg *config.ConfigFile, logger zerolog.Logger) (executor.Executor, func(), error) {
	if cfg.SSH == nil {
		return executor.NewLocalExecutor(logger), func() {}, nil
	}

	ssh := executor.NewSSHExecutor(executor.SSHConfig{
		Host:           cfg.SSH.Host,
		Port:           cfg.SSH.Port,
		User:           cfg.SSH.User,
		Password:       cfg.SSH.Password,
		KeyFile:        cfg.SSH.KeyFile,
		KnownHostsFile: cfg.SSH.KnownHostsFile,
	}, logger)
	return ssh, func() { _ = ssh.Close() }, nil
}

// app carries global flags and the state built from them
type app struct {
	configFile string
	dotEnv     string
	controller string
	host       string
	user       string
	password   string
	binary     string
	overrides  []string
	verbose    bool
	jsonLog    bool

	newExecutor ExecutorFactory
	cfg         *config.ConfigFile
	logger      zerolog.Logger
}

// NewRootCommand builds the racadmctl command tree
func NewRootCommand(factory ExecutorFactory) *cobra.Command {
	a := &app{newExecutor: factory, logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "racadmctl",
		Short: "Drive Dell iDRAC controllers through racadm",
		Long: `racadmctl wraps the racadm utility to toggle IPMI over LAN, import
server configuration profiles, wait for controller jobs and read the
firmware inventory of one or more iDRACs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to config file (yaml or json)")
	flags.StringVar(&a.dotEnv, "env-file", ".env", "Path to a .env file with RACADM_* variables")
	flags.StringVar(&a.controller, "controller", "", "Name of the controller in the config file")
	flags.StringVar(&a.host, "host", "", "iDRAC address; empty targets the local controller")
	flags.StringVar(&a.user, "user", "", "iDRAC user")
	flags.StringVar(&a.password, "password", "", "iDRAC password")
	flags.StringVar(&a.binary, "binary", "", "Path to the racadm binary")
	flags.StringArrayVar(&a.overrides, "set", nil, "Override a config field, e.g. Poll.MaxRetries=5 (repeatable)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&a.jsonLog, "json-log", false, "Log as JSON")

	rootCmd.AddCommand(newIPMICommand(a))
	rootCmd.AddCommand(newJobCommand(a))
	rootCmd.AddCommand(newBIOSCommand(a))
	rootCmd.AddCommand(newInventoryCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// Execute runs racadmctl with os.Args. An interrupt or SIGTERM cancels the
// running command, which kills racadm and ends job polling as Cancelled.
func Execute() {
	ctx, stop := signalContext(context.Background())
	err := NewRootCommand(DefaultExecutorFactory).ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on interrupt or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger = log.NewWithWriter(cmd.ErrOrStderr(), a.verbose, a.jsonLog)

	// Variables from the .env file never replace ones already set
	if err := config.LoadDotEnv(a.dotEnv); err != nil {
		return err
	}

	cfg := config.Defaults()
	if a.configFile != "" {
		loaded, err := config.LoadConfigFile(a.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Environment, then --set, then --binary
	cfg.ApplyEnv()
	if err := cfg.ApplyOverrides(a.overrides); err != nil {
		return err
	}
	if a.binary != "" {
		cfg.Binary = a.binary
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger.Debug().Str("config", a.configFile).Int("controllers", len(cfg.Controllers)).Msg("configuration loaded")
	return nil
}

// target resolves the controller from the config file and the command line flags
func (a *app) target() (racadm.Target, error) {
	ctrl, err := a.cfg.Controller(a.controller)
	if err != nil {
		return racadm.Target{}, err
	}

	t := racadm.Target{Host: ctrl.Host, User: ctrl.Username, Password: ctrl.Password}
	if a.host != "" {
		t.Host = a.host
	}
	if a.user != "" {
		t.User = a.user
	}
	if a.password != "" {
		t.Password = a.password
	}
	return t, nil
}

// tool builds a racadm.Tool from the configuration. The returned function
// releases the executor.
func (a *app) tool() (*racadm.Tool, func(), error) {
	pollCfg, err := a.cfg.PollerConfig()
	if err != nil {
		return nil, nil, err
	}

	exec, release, err := a.newExecutor(a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	tool := racadm.New(exec,
		racadm.WithBinary(a.cfg.Binary),
		racadm.WithShareDefaults(a.cfg.Share.User, a.cfg.Share.Password),
		racadm.WithPollConfig(pollCfg),
		racadm.WithStrictParsing(a.cfg.Parser.Strict),
		racadm.WithConcurrency(a.cfg.Poll.Concurrency),
		racadm.WithLogger(a.logger),
	)
	return tool, release, nil
}

// run resolves the target, builds the tool and calls fn with both
func (a *app) run(fn func(tool *racadm.Tool, target racadm.Target) error) error {
	target, err := a.target()
	if err != nil {
		return err
	}

	tool, release, err := a.tool()
	if err != nil {
		return err
	}
	defer release()

	return fn(tool, target)
}

func describe(target racadm.Target) string {
	if target.Host == "" {
		return "local iDRAC"
	}
	return target.Host
}
