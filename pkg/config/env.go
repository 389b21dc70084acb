package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Environment variables read by ApplyEnv
const (
	EnvHost          = "RACADM_HOST"
	EnvUser          = "RACADM_USER"
	EnvPassword      = "RACADM_PASSWORD"
	EnvBinary        = "RACADM_BINARY"
	EnvShareUser     = "RACADM_SHARE_USER"
	EnvSharePassword = "RACADM_SHARE_PASSWORD"
)

// envController names the controller created from RACADM_HOST when the file lists none
const envController = "default"

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return configError(errors.Wrap(err, "load .env"), path)
	}
	log.Debug().Str("dotenv", path).Msg("loaded .env")
	return nil
}

// ApplyEnv overrides the configuration with RACADM_* variables. Host, user
// and password apply to the first controller, which is created if needed.
func (c *ConfigFile) ApplyEnv() {
	if v := os.Getenv(EnvBinary); v != "" {
		c.Binary = v
	}
	if v := os.Getenv(EnvShareUser); v != "" {
		c.Share.User = v
	}
	if v := os.Getenv(EnvSharePassword); v != "" {
		c.Share.Password = v
	}

	host, user, password := os.Getenv(EnvHost), os.Getenv(EnvUser), os.Getenv(EnvPassword)
	if host == "" && user == "" && password == "" {
		return
	}
	if len(c.Controllers) == 0 {
		c.Controllers = append(c.Controllers, ControllerConfig{Name: envController})
	}

	ctrl := &c.Controllers[0]
	if host != "" {
		ctrl.Host = host
	}
	if user != "" {
		ctrl.Username = user
	}
	if password != "" {
		ctrl.Password = password
	}
}
