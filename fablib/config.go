// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Default configuration values.
const (
	DefaultOrchestratorHost = "orchestrator.fabric-testbed.net"
	DefaultBastionHost      = "bastion.fabric-testbed.net"
	DefaultLogLevel         = "INFO"
)

// Config holds the settings facades and the tools built on them
// need.  A Config is built once, typically by LoadConfig, and passed
// by pointer to everything that uses it.  A nil *Config behaves as
// DefaultConfig().
type Config struct {
	// WorkDir is the experimenter's working directory.
	WorkDir string `mapstructure:"work_dir"`

	// ConfigDir holds keys and the bastion ssh configuration.
	ConfigDir string `mapstructure:"config_dir"`

	// OrchestratorHost is the host name of the orchestrator.
	OrchestratorHost string `mapstructure:"orchestrator_host"`

	// BastionHost is the jump host every node is reached through.
	BastionHost string `mapstructure:"bastion_host"`

	// BastionUsername is the account on the bastion host.
	BastionUsername string `mapstructure:"bastion_username"`

	// BastionKeyFile is the private key for the bastion host.
	BastionKeyFile string `mapstructure:"bastion_key_location"`

	// BastionKeyPassphrase decrypts BastionKeyFile, if needed.
	BastionKeyPassphrase string `mapstructure:"bastion_key_passphrase"`

	// BastionSSHConfigFile is an ssh_config(5) file routing node
	// connections through the bastion.
	BastionSSHConfigFile string `mapstructure:"bastion_ssh_config_file"`

	// SlicePublicKeyFile is the key installed on slice nodes.
	SlicePublicKeyFile string `mapstructure:"slice_public_key_file"`

	// SlicePrivateKeyFile is the key used to log in to nodes.
	SlicePrivateKeyFile string `mapstructure:"slice_private_key_file"`

	// SlicePrivateKeyPassphrase decrypts SlicePrivateKeyFile, if
	// needed.
	SlicePrivateKeyPassphrase string `mapstructure:"slice_private_key_passphrase"`

	// SSHCommandLine is the template a node's SSH command is
	// rendered from.  {{ _self_.key }} is replaced by the node's
	// ToDict value for key.
	SSHCommandLine string `mapstructure:"ssh_command_line"`

	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level"`

	// Avoid lists sites that should not be used for new nodes.
	Avoid []string `mapstructure:"avoid"`

	// Logger receives facade diagnostics.  If nil, the logrus
	// standard logger is used.
	Logger *logrus.Entry `mapstructure:"-"`

	// Metrics, if not nil, counts cache hits and rebuilds.
	Metrics *Metrics `mapstructure:"-"`
}

// DefaultConfig returns the built-in configuration, rooted at the
// current user's home directory.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return defaultConfigIn(home)
}

func defaultConfigIn(home string) *Config {
	workDir := filepath.Join(home, "work")
	configDir := filepath.Join(workDir, "fabric_config")
	sshConfig := filepath.Join(configDir, "ssh_config")
	return &Config{
		WorkDir:              workDir,
		ConfigDir:            configDir,
		OrchestratorHost:     DefaultOrchestratorHost,
		BastionHost:          DefaultBastionHost,
		BastionKeyFile:       filepath.Join(configDir, "fabric_bastion_key"),
		BastionSSHConfigFile: sshConfig,
		SlicePublicKeyFile:   filepath.Join(configDir, "slice_key.pub"),
		SlicePrivateKeyFile:  filepath.Join(configDir, "slice_key"),
		SSHCommandLine: "ssh -i {{ _self_.private_ssh_key_file }} -F " +
			sshConfig + " {{ _self_.username }}@{{ _self_.management_ip }}",
		LogLevel: DefaultLogLevel,
	}
}

// LoadConfig builds a configuration from the defaults, then the YAML
// file filename if it is not empty, then the FABRIC_* variables
// getenv returns.  Pass os.Getenv for getenv to use the process
// environment.
func LoadConfig(filename string, getenv func(string) string) (*Config, error) {
	config := DefaultConfig()
	if filename != "" {
		bytes, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrap(err, "read configuration")
		}
		var raw map[string]interface{}
		err = yaml.Unmarshal(bytes, &raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %v", filename)
		}
		err = config.decode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %v", filename)
		}
	}
	if getenv != nil {
		config.applyEnv(getenv)
	}
	if _, err := config.Level(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) decode(raw map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func (c *Config) applyEnv(getenv func(string) string) {
	vars := []struct {
		name  string
		field *string
	}{
		{"FABRIC_ORCHESTRATOR_HOST", &c.OrchestratorHost},
		{"FABRIC_BASTION_HOST", &c.BastionHost},
		{"FABRIC_BASTION_USERNAME", &c.BastionUsername},
		{"FABRIC_BASTION_KEY_LOCATION", &c.BastionKeyFile},
		{"FABRIC_BASTION_KEY_PASSPHRASE", &c.BastionKeyPassphrase},
		{"FABRIC_BASTION_SSH_CONFIG_FILE", &c.BastionSSHConfigFile},
		{"FABRIC_SLICE_PUBLIC_KEY_FILE", &c.SlicePublicKeyFile},
		{"FABRIC_SLICE_PRIVATE_KEY_FILE", &c.SlicePrivateKeyFile},
		{"FABRIC_SLICE_PRIVATE_KEY_PASSPHRASE", &c.SlicePrivateKeyPassphrase},
		{"FABRIC_SSH_COMMAND_LINE", &c.SSHCommandLine},
		{"FABRIC_LOG_LEVEL", &c.LogLevel},
	}
	for _, env := range vars {
		if value := getenv(env.name); value != "" {
			*env.field = value
		}
	}
	if avoid := getenv("FABRIC_AVOID"); avoid != "" {
		c.Avoid = splitList(avoid)
	}
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// Avoids reports whether site is on the avoid list.
func (c *Config) Avoids(site string) bool {
	for _, avoid := range c.orDefault().Avoid {
		if avoid == site {
			return true
		}
	}
	return false
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.orDefault().LogLevel)
	if err != nil {
		return level, errors.Wrap(err, "log_level")
	}
	return level, nil
}

// Log returns the logger facades report through.
func (c *Config) Log() *logrus.Entry {
	if c == nil || c.Logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return c.Logger
}

func (c *Config) orDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	return c
}
