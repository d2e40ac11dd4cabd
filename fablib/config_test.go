// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package fablib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	filename := filepath.Join(t.TempDir(), "fabric_rc.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o600))
	return filename
}

func environment(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfigIn("/home/exp")
	assert.Equal(t, "/home/exp/work", cfg.WorkDir)
	assert.Equal(t, "/home/exp/work/fabric_config/fabric_bastion_key", cfg.BastionKeyFile)
	assert.Equal(t, "/home/exp/work/fabric_config/slice_key.pub", cfg.SlicePublicKeyFile)
	assert.Equal(t, DefaultBastionHost, cfg.BastionHost)
	assert.Equal(t, DefaultOrchestratorHost, cfg.OrchestratorHost)

	level, err := cfg.Level()
	if assert.NoError(t, err) {
		assert.Equal(t, logrus.InfoLevel, level)
	}
}

func TestLoadConfig(t *testing.T) {
	filename := writeConfig(t, `
orchestrator_host: orchestrator.example.org
bastion_username: exp_0000
avoid: [STAR, UTAH]
log_level: debug
`)
	cfg, err := LoadConfig(filename, environment(map[string]string{
		"FABRIC_BASTION_HOST":           "bastion.example.org",
		"FABRIC_SLICE_PRIVATE_KEY_FILE": "/keys/slice",
	}))
	require.NoError(t, err)
	assert.Equal(t, "orchestrator.example.org", cfg.OrchestratorHost)
	assert.Equal(t, "exp_0000", cfg.BastionUsername)
	assert.Equal(t, "bastion.example.org", cfg.BastionHost)
	assert.Equal(t, "/keys/slice", cfg.SlicePrivateKeyFile)
	assert.Equal(t, []string{"STAR", "UTAH"}, cfg.Avoid)
	assert.True(t, cfg.Avoids("UTAH"))
	assert.False(t, cfg.Avoids("MAX"))

	level, err := cfg.Level()
	if assert.NoError(t, err) {
		assert.Equal(t, logrus.DebugLevel, level)
	}
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	filename := writeConfig(t, "avoid: STAR,UTAH\norchestrator_host: a.example.org\n")
	cfg, err := LoadConfig(filename, environment(map[string]string{
		"FABRIC_AVOID":             "MAX, ,TACC",
		"FABRIC_ORCHESTRATOR_HOST": "b.example.org",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"MAX", "TACC"}, cfg.Avoid)
	assert.Equal(t, "b.example.org", cfg.OrchestratorHost)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bastoin_host: typo\n"), nil)
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "log_level: chatty\n"), nil)
	assert.Error(t, err)

	_, err = LoadConfig("", environment(map[string]string{
		"FABRIC_LOG_LEVEL": "loud",
	}))
	assert.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	var cfg *Config
	assert.NotNil(t, cfg.Log())
	assert.False(t, cfg.Avoids("STAR"))
	level, err := cfg.Level()
	if assert.NoError(t, err) {
		assert.Equal(t, logrus.InfoLevel, level)
	}
}
