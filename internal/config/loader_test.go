package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/fleetreport/internal/errors"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
default_credentials:
  username: ops
  password: secret
  port: 22

servers:
  - host: 10.0.0.1
  - host: 10.0.0.2
    username: admin
    port: 2222
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ops", cfg.DefaultCredentials.Username)
	assert.Equal(t, 22, cfg.DefaultCredentials.Port)
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, "10.0.0.2", cfg.Servers[1].Host)
	assert.Equal(t, 2222, cfg.Servers[1].Port)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
default_credentials:
  username: ops
servers:
  - host: box-1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.DefaultCredentials.Port)
	assert.Equal(t, 30*time.Second, cfg.Collection.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Collection.SampleGap)
	assert.Equal(t, 1, cfg.Collection.Retries)
	assert.Equal(t, 1, cfg.Collection.Workers)
	assert.False(t, cfg.StrictHostKeys)
}

func TestLoadCollectionOverrides(t *testing.T) {
	path := writeConfig(t, `
default_credentials:
  username: ops
servers:
  - host: box-1
collection:
  timeout: 10s
  sample_gap: 500ms
  retries: 0
  workers: 4
report:
  path: /tmp/report.xlsx
strict_host_keys: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Collection.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Collection.SampleGap)
	assert.Equal(t, 0, cfg.Collection.Retries)
	assert.Equal(t, 4, cfg.Collection.Workers)
	assert.Equal(t, "/tmp/report.xlsx", cfg.Report.Path)
	assert.True(t, cfg.StrictHostKeys)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "servers: [host: {{{")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadNoServers(t *testing.T) {
	path := writeConfig(t, `
default_credentials:
  username: ops
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadEntryMissingHost(t *testing.T) {
	path := writeConfig(t, `
default_credentials:
  username: ops
servers:
  - username: admin
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestProfilesMergeDefaults(t *testing.T) {
	cfg := &Config{
		DefaultCredentials: Credentials{
			Username: "ops",
			Password: "defaultpw",
			Port:     22,
		},
		Servers: []Server{
			{Host: "a.example.com"},
			{Host: "b.example.com", Username: "admin", Password: "override", Port: 2222},
			{Host: "c.example.com", Port: 2200},
		},
	}

	profiles := cfg.Profiles()
	require.Len(t, profiles, len(cfg.Servers))

	assert.Equal(t, HostProfile{
		Host: "a.example.com", Username: "ops", Password: "defaultpw", Port: 22,
	}, profiles[0])

	assert.Equal(t, HostProfile{
		Host: "b.example.com", Username: "admin", Password: "override", Port: 2222,
	}, profiles[1])

	// Partial override keeps remaining defaults.
	assert.Equal(t, HostProfile{
		Host: "c.example.com", Username: "ops", Password: "defaultpw", Port: 2200,
	}, profiles[2])
}

func TestProfilesOrderMatchesConfig(t *testing.T) {
	cfg := &Config{
		Servers: []Server{
			{Host: "z"}, {Host: "a"}, {Host: "m"},
		},
	}

	profiles := cfg.Profiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "z", profiles[0].Host)
	assert.Equal(t, "a", profiles[1].Host)
	assert.Equal(t, "m", profiles[2].Host)
}

func TestProfilesFallbackPort(t *testing.T) {
	// No default port and no override still yields a usable profile.
	cfg := &Config{
		Servers: []Server{{Host: "a"}},
	}

	profiles := cfg.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, 22, profiles[0].Port)
}

func TestFindExplicitPath(t *testing.T) {
	path := writeConfig(t, "servers:\n  - host: a\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindExplicitPathMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("servers:\n  - host: a\n"), 0644))

	t.Chdir(dir)

	found, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, path, found)
}
