package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	rerrors "github.com/davidroman0O/racadm/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `controllers:
  - name: rack1-r640
    host: 192.168.188.103
    username: root
    password: calvin
  - name: rack1-r740
    host: 192.168.188.104
    username: root
    password: calvin
share:
  user: cifs
  password: secret
poll:
  maxRetries: 20
  initialDelay: 2s
  maxDelay: 30s
parser:
  strict: true
ssh:
  host: station.lab
  user: ops
  keyFile: /home/ops/.ssh/id_ed25519
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	cfg, err := LoadConfigFile(writeFile(t, "racadm.yaml", yamlConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Controllers, 2)
	assert.Equal(t, ControllerConfig{Name: "rack1-r640", Host: "192.168.188.103", Username: "root", Password: "calvin"}, cfg.Controllers[0])
	assert.Equal(t, "cifs", cfg.Share.User)
	assert.True(t, cfg.Parser.Strict)
	require.NotNil(t, cfg.SSH)
	assert.Equal(t, "station.lab", cfg.SSH.Host)

	// absent keys keep their defaults
	assert.Equal(t, defaultBinary, cfg.Binary)
	assert.Equal(t, defaultConcurrency, cfg.Poll.Concurrency)

	pc, err := cfg.PollerConfig()
	require.NoError(t, err)
	assert.Equal(t, 20, pc.MaxRetries)
	assert.Equal(t, 2*time.Second, pc.InitialDelay)
	assert.Equal(t, 30*time.Second, pc.MaxDelay)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeFile(t, "racadm.json", `{"controllers":[{"name":"lab","host":"10.0.0.5","username":"root","password":"calvin"}],"poll":{"maxRetries":0}}`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "lab", cfg.Controllers[0].Name)
	assert.Equal(t, 0, cfg.Poll.MaxRetries)
	assert.Equal(t, defaultInitialDelay, cfg.Poll.InitialDelay)
	assert.Equal(t, defaultShareUser, cfg.Share.User)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") }},
		{"unsupported extension", func(t *testing.T) string { return writeFile(t, "racadm.toml", "binary = 'x'") }},
		{"broken yaml", func(t *testing.T) string { return writeFile(t, "racadm.yml", "controllers: [") }},
		{"broken json", func(t *testing.T) string { return writeFile(t, "racadm.json", "{") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := LoadConfigFile(path)
			require.Error(t, err)
			assert.Equal(t, rerrors.ErrConfiguration, rerrors.GetCode(err))
			assert.Equal(t, path, rerrors.GetContext(err)["path"])
		})
	}

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ConfigFile)
		field  string
	}{
		{"empty binary", func(c *ConfigFile) { c.Binary = "" }, "binary"},
		{"unnamed controller", func(c *ConfigFile) { c.Controllers = []ControllerConfig{{Host: "h"}} }, "controllers[0].name"},
		{"controller without host", func(c *ConfigFile) { c.Controllers = []ControllerConfig{{Name: "a"}} }, "controllers[0].host"},
		{"duplicate controller", func(c *ConfigFile) {
			c.Controllers = []ControllerConfig{{Name: "a", Host: "h1"}, {Name: "a", Host: "h2"}}
		}, "controllers[1].name"},
		{"negative retries", func(c *ConfigFile) { c.Poll.MaxRetries = -1 }, "poll.maxRetries"},
		{"negative concurrency", func(c *ConfigFile) { c.Poll.Concurrency = -2 }, "poll.concurrency"},
		{"bad initial delay", func(c *ConfigFile) { c.Poll.InitialDelay = "soon" }, "poll.initialDelay"},
		{"negative max delay", func(c *ConfigFile) { c.Poll.MaxDelay = "-5s" }, "poll.maxDelay"},
		{"ssh without user", func(c *ConfigFile) { c.SSH = &SSHConfig{Host: "station", Password: "x"} }, "ssh"},
		{"ssh without credentials", func(c *ConfigFile) { c.SSH = &SSHConfig{Host: "station", User: "ops"} }, "ssh"},
	}

	require.NoError(t, Defaults().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, rerrors.ErrConfiguration, rerrors.GetCode(err))
			assert.Equal(t, tt.field, rerrors.GetContext(err)["field"])
		})
	}
}

func TestController(t *testing.T) {
	cfg := Defaults()

	ctrl, err := cfg.Controller("")
	require.NoError(t, err)
	assert.Equal(t, ControllerConfig{}, ctrl, "no controllers targets the local iDRAC")

	cfg.Controllers = []ControllerConfig{{Name: "a", Host: "10.0.0.1"}, {Name: "b", Host: "10.0.0.2"}}

	ctrl, err = cfg.Controller("")
	require.NoError(t, err)
	assert.Equal(t, "a", ctrl.Name)

	ctrl, err = cfg.Controller("b")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", ctrl.Host)

	_, err = cfg.Controller("c")
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrConfiguration, rerrors.GetCode(err))
}

func TestApplyEnv(t *testing.T) {
	t.Run("creates a controller", func(t *testing.T) {
		t.Setenv(EnvHost, "192.168.188.113")
		t.Setenv(EnvUser, "admin")
		t.Setenv(EnvPassword, "admin")
		t.Setenv(EnvBinary, "/usr/bin/racadm")
		t.Setenv(EnvShareUser, "svc")
		t.Setenv(EnvSharePassword, "pw")

		cfg := Defaults()
		cfg.ApplyEnv()

		require.Len(t, cfg.Controllers, 1)
		assert.Equal(t, ControllerConfig{Name: envController, Host: "192.168.188.113", Username: "admin", Password: "admin"}, cfg.Controllers[0])
		assert.Equal(t, "/usr/bin/racadm", cfg.Binary)
		assert.Equal(t, ShareConfig{User: "svc", Password: "pw"}, cfg.Share)
	})

	t.Run("overrides the first controller", func(t *testing.T) {
		t.Setenv(EnvPassword, "rotated")

		cfg := Defaults()
		cfg.Controllers = []ControllerConfig{{Name: "a", Host: "10.0.0.1", Username: "root", Password: "calvin"}}
		cfg.ApplyEnv()

		assert.Equal(t, ControllerConfig{Name: "a", Host: "10.0.0.1", Username: "root", Password: "rotated"}, cfg.Controllers[0])
		assert.Equal(t, defaultBinary, cfg.Binary)
	})
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := writeFile(t, ".env", "RACADM_HOST=10.1.1.1\n")
	t.Setenv(EnvHost, "")
	require.NoError(t, os.Unsetenv(EnvHost))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "10.1.1.1", os.Getenv(EnvHost))

	// existing variables win over the file
	t.Setenv(EnvHost, "10.2.2.2")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "10.2.2.2", os.Getenv(EnvHost))
}

func TestApplyOverrides(t *testing.T) {
	cfg := Defaults()
	err := cfg.ApplyOverrides([]string{
		"Poll.MaxRetries=5",
		"Poll.InitialDelay=250ms",
		"Parser.Strict=true",
		"Binary=/usr/local/bin/racadm",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Poll.MaxRetries)
	assert.Equal(t, "250ms", cfg.Poll.InitialDelay)
	assert.True(t, cfg.Parser.Strict)
	assert.Equal(t, "/usr/local/bin/racadm", cfg.Binary)

	for _, bad := range []string{"Poll.MaxRetries", "=5", "Poll.Unknown=1", "Poll.MaxRetries=many"} {
		err := cfg.ApplyOverrides([]string{bad})
		require.Error(t, err, bad)
		assert.Equal(t, rerrors.ErrConfiguration, rerrors.GetCode(err), bad)
		assert.Equal(t, bad, rerrors.GetContext(err)["override"])
	}
}

func TestMasked(t *testing.T) {
	cfg, err := LoadConfigFile(writeFile(t, "racadm.yaml", yamlConfig))
	require.NoError(t, err)
	cfg.SSH.Password = "station-pw"

	m := cfg.Masked()
	assert.Equal(t, masked, m.Controllers[0].Password)
	assert.Equal(t, masked, m.Share.Password)
	assert.Equal(t, masked, m.SSH.Password)
	assert.Equal(t, "root", m.Controllers[0].Username)

	assert.Equal(t, "calvin", cfg.Controllers[0].Password, "source config untouched")
	assert.Equal(t, "station-pw", cfg.SSH.Password)
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)

	for _, key := range []string{"controllers", "maxRetries", "initialDelay", "strict", "keyFile"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}
