package sshutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fleeterrors "github.com/rileyhilliard/fleetreport/internal/errors"
)

func TestResolveSettingsExplicitValues(t *testing.T) {
	// Point HOME at an empty dir so no real ~/.ssh/config interferes.
	t.Setenv("HOME", t.TempDir())

	s := resolveSettings(Options{
		Host:     "10.0.0.5",
		Port:     2222,
		Username: "admin",
	})

	assert.Equal(t, "10.0.0.5", s.hostname)
	assert.Equal(t, "2222", s.port)
	assert.Equal(t, "admin", s.user)
	assert.Equal(t, "10.0.0.5:2222", s.address())
}

func TestResolveSettingsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USER", "tester")

	s := resolveSettings(Options{Host: "example.com"})

	assert.Equal(t, "example.com", s.hostname)
	assert.Equal(t, "22", s.port)
	assert.Equal(t, "tester", s.user)
}

func TestBuildClientConfigPasswordFirst(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SSH_AUTH_SOCK", "")

	s := resolveSettings(Options{Host: "h", Username: "u"})
	cfg, err := buildClientConfig(s, Options{Host: "h", Username: "u", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "u", cfg.User)
	require.NotEmpty(t, cfg.Auth)
	assert.NotNil(t, cfg.HostKeyCallback)
}

func TestBuildClientConfigNoMethods(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SSH_AUTH_SOCK", "")

	s := resolveSettings(Options{Host: "h"})
	_, err := buildClientConfig(s, Options{Host: "h"})

	require.Error(t, err)
	assert.True(t, fleeterrors.IsCode(err, fleeterrors.ErrAuth))
}

func TestDialUnreachableHostIsConnectError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// Reserved TEST-NET address; dial fails fast with the short timeout.
	_, err := Dial(Options{
		Host:     "192.0.2.1",
		Port:     22,
		Username: "ops",
		Password: "pw",
	}, 50*time.Millisecond)

	require.Error(t, err)
	assert.True(t, fleeterrors.IsCode(err, fleeterrors.ErrConnect))
}

func TestSuggestionForDialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"refused", errors.New("dial tcp: connection refused"), "Is SSH running"},
		{"no route", errors.New("no route to host"), "Can't route"},
		{"timeout", errors.New("i/o timeout"), "timed out"},
		{"other", errors.New("mystery"), "reachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, suggestionForDialError(tt.err), tt.want)
		})
	}
}

func TestSuggestionForHandshakeError(t *testing.T) {
	authErr := errors.New("ssh: unable to authenticate, attempted methods [password]")
	assert.Contains(t, suggestionForHandshakeError(authErr), "username and password")

	keyErr := errors.New("ssh: host key verification failed")
	assert.Contains(t, suggestionForHandshakeError(keyErr), "Host key")
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.ssh/id_rsa", expandPath("~/.ssh/id_rsa"))
	assert.Equal(t, "/etc/key", expandPath("/etc/key"))
}
