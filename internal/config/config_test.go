package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 33066, cfg.LocalPort)
	assert.Equal(t, time.Second, cfg.ConnectDelay)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
region: eu-west-1
profile: ops
local_port: 13306
connect_delay: 250ms
aws_binary: /usr/local/bin/aws
check_updates: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Region:       "eu-west-1",
		Profile:      "ops",
		LocalPort:    13306,
		ConnectDelay: 250 * time.Millisecond,
		AWSBinary:    "/usr/local/bin/aws",
		CheckUpdates: false,
	}, cfg)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_DEFAULT_REGION", "us-west-2")
	t.Setenv("AWS_PROFILE", "prod")
	path := writeConfig(t, "region: eu-west-1\nprofile: ops\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "prod", cfg.Profile)

	t.Setenv("AWS_REGION", "eu-central-1")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Region)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(writeConfig(t, "connect_delay: soon\n"))
	assert.ErrorContains(t, err, "connect_delay")

	_, err = LoadConfig(writeConfig(t, "local_port: 70000\n"))
	assert.ErrorContains(t, err, "local_port")

	_, err = LoadConfig(writeConfig(t, "region: [\n"))
	assert.ErrorContains(t, err, "failed to parse config")
}
