package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	rerrors "github.com/davidroman0O/racadm/errors"
	"github.com/davidroman0O/racadm/pkg/racadm/poller"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultBinary        = "/opt/dell/srvadmin/sbin/racadm"
	defaultShareUser     = "onrack"
	defaultSharePassword = "onrack"
	defaultInitialDelay  = "1s"
	defaultConcurrency   = 4
)

// Defaults returns the configuration used when no file is given
func Defaults() *ConfigFile {
	return &ConfigFile{
		Binary: defaultBinary,
		Share: ShareConfig{
			User:     defaultShareUser,
			Password: defaultSharePassword,
		},
		Poll: PollConfig{
			MaxRetries:   poller.DefaultMaxRetries,
			InitialDelay: defaultInitialDelay,
			Concurrency:  defaultConcurrency,
		},
	}
}

// LoadConfigFile loads a configuration file on top of Defaults. Fields absent
// from the file keep their default value.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(errors.Wrap(err, "read config file"), path)
	}

	// Start from defaults so absent keys keep them
	config := Defaults()
	ext := filepath.Ext(path)

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, configError(errors.Wrap(err, "parse YAML config"), path)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, configError(errors.Wrap(err, "parse JSON config"), path)
		}
	default:
		return nil, configError(errors.Errorf("unsupported config file format: %s", ext), path)
	}

	return config, nil
}

func configError(err error, path string) error {
	return rerrors.WithContext(
		&rerrors.Error{Code: rerrors.ErrConfiguration, Message: "invalid configuration file", Op: "load config", Cause: err},
		map[string]interface{}{"path": path},
	)
}

// Validate checks values that cannot be expressed by the file format
func (c *ConfigFile) Validate() error {
	invalid := func(field, format string, args ...interface{}) error {
		return rerrors.WithContext(
			&rerrors.Error{Code: rerrors.ErrConfiguration, Message: fmt.Sprintf(format, args...), Op: "validate config"},
			map[string]interface{}{"field": field},
		)
	}

	if c.Binary == "" {
		return invalid("binary", "racadm binary path is empty")
	}

	seen := make(map[string]bool, len(c.Controllers))
	for i, ctrl := range c.Controllers {
		if ctrl.Name == "" {
			return invalid(fmt.Sprintf("controllers[%d].name", i), "controller name is empty")
		}
		if seen[ctrl.Name] {
			return invalid(fmt.Sprintf("controllers[%d].name", i), "duplicate controller %q", ctrl.Name)
		}
		seen[ctrl.Name] = true
		if ctrl.Host == "" {
			return invalid(fmt.Sprintf("controllers[%d].host", i), "controller %q has no host", ctrl.Name)
		}
	}

	if c.Poll.MaxRetries < 0 {
		return invalid("poll.maxRetries", "maxRetries must not be negative, got %d", c.Poll.MaxRetries)
	}
	if c.Poll.Concurrency < 0 {
		return invalid("poll.concurrency", "concurrency must not be negative, got %d", c.Poll.Concurrency)
	}
	if _, err := parseDelay(c.Poll.InitialDelay); err != nil {
		return invalid("poll.initialDelay", "%v", err)
	}
	if _, err := parseDelay(c.Poll.MaxDelay); err != nil {
		return invalid("poll.maxDelay", "%v", err)
	}

	if c.SSH != nil {
		if c.SSH.Host == "" || c.SSH.User == "" {
			return invalid("ssh", "ssh requires host and user")
		}
		if c.SSH.Password == "" && c.SSH.KeyFile == "" {
			return invalid("ssh", "ssh requires a password or a keyFile")
		}
	}

	return nil
}

func parseDelay(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", value)
	}
	return d, nil
}

// PollerConfig converts the poll section into the poller policy
func (c *ConfigFile) PollerConfig() (poller.Config, error) {
	initial, err := parseDelay(c.Poll.InitialDelay)
	if err != nil {
		return poller.Config{}, rerrors.Wrap(err, rerrors.ErrConfiguration, "invalid poll.initialDelay")
	}
	maxDelay, err := parseDelay(c.Poll.MaxDelay)
	if err != nil {
		return poller.Config{}, rerrors.Wrap(err, rerrors.ErrConfiguration, "invalid poll.maxDelay")
	}
	return poller.Config{
		MaxRetries:   c.Poll.MaxRetries,
		InitialDelay: initial,
		MaxDelay:     maxDelay,
	}, nil
}

// Controller returns the controller called name. An empty name picks the
// first controller, or an empty one targeting the local iDRAC when none exist.
func (c *ConfigFile) Controller(name string) (ControllerConfig, error) {
	if name == "" {
		if len(c.Controllers) == 0 {
			return ControllerConfig{}, nil
		}
		return c.Controllers[0], nil
	}

	for _, ctrl := range c.Controllers {
		if ctrl.Name == name {
			return ctrl, nil
		}
	}
	return ControllerConfig{}, rerrors.WithContext(
		rerrors.Newf(rerrors.ErrConfiguration, "controller %q not found", name),
		map[string]interface{}{"controller": name},
	)
}

const masked = "********"

// Masked returns a copy with every password replaced
func (c *ConfigFile) Masked() *ConfigFile {
	out := *c

	out.Controllers = make([]ControllerConfig, len(c.Controllers))
	for i, ctrl := range c.Controllers {
		if ctrl.Password != "" {
			ctrl.Password = masked
		}
		out.Controllers[i] = ctrl
	}

	if out.Share.Password != "" {
		out.Share.Password = masked
	}

	if c.SSH != nil {
		ssh := *c.SSH
		if ssh.Password != "" {
			ssh.Password = masked
		}
		out.SSH = &ssh
	}

	return &out
}
