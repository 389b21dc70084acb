// Package config provides configuration structures and loading utilities
package config

// ControllerConfig is an iDRAC reachable through racadm -r
type ControllerConfig struct {
	Name     string `yaml:"name" json:"name"`
	Host     string `yaml:"host" json:"host"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// ShareConfig holds the credentials of the CIFS share serving configuration files
type ShareConfig struct {
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
}

// PollConfig controls how job completion is awaited
type PollConfig struct {
	MaxRetries int `yaml:"maxRetries" json:"maxRetries" jsonschema:"minimum=0"`
	// Durations use time.ParseDuration syntax
	InitialDelay string `yaml:"initialDelay" json:"initialDelay"`
	MaxDelay     string `yaml:"maxDelay,omitempty" json:"maxDelay,omitempty"`
	Concurrency  int    `yaml:"concurrency" json:"concurrency" jsonschema:"minimum=0"`
}

// ParserConfig selects how racadm output is read
type ParserConfig struct {
	Strict bool `yaml:"strict" json:"strict"`
}

// SSHConfig contains SSH connection details of the management station running racadm
type SSHConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port"`
	User           string `yaml:"user" json:"user"`
	Password       string `yaml:"password,omitempty" json:"password,omitempty"`
	KeyFile        string `yaml:"keyFile,omitempty" json:"keyFile,omitempty"`
	KnownHostsFile string `yaml:"knownHostsFile,omitempty" json:"knownHostsFile,omitempty"`
}

// ConfigFile represents the top-level configuration file structure
type ConfigFile struct {
	Controllers []ControllerConfig `yaml:"controllers" json:"controllers"`
	Binary      string             `yaml:"binary" json:"binary"`
	Share       ShareConfig        `yaml:"share" json:"share"`
	Poll        PollConfig         `yaml:"poll" json:"poll"`
	Parser      ParserConfig       `yaml:"parser" json:"parser"`
	// Runs racadm on a remote station instead of this machine
	SSH *SSHConfig `yaml:"ssh,omitempty" json:"ssh,omitempty"`
}
