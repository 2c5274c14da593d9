package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/fleetreport/pkg/sshutil"
)

// Compile-time check that the mock satisfies the real interface.
var _ sshutil.SSHClient = (*MockClient)(nil)

func TestMockClientExactMatch(t *testing.T) {
	m := NewMockClient("box")
	m.SetCommandResponse("uname -n", CommandResponse{Stdout: []byte("box-1\n")})

	out, _, code, err := m.Exec("uname -n")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "box-1\n", string(out))
	assert.Equal(t, []string{"uname -n"}, m.Calls)
}

func TestMockClientPatternMatch(t *testing.T) {
	m := NewMockClient("box")
	m.SetCommandResponse(`cat /proc/stat.*`, CommandResponse{Stdout: []byte("cpu  1 2 3 4\n")})

	out, _, code, err := m.Exec("cat /proc/stat; echo done")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, string(out), "cpu ")
}

func TestMockClientUnknownCommand(t *testing.T) {
	m := NewMockClient("box")

	_, stderr, code, err := m.Exec("sar -n DEV")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
	assert.Contains(t, string(stderr), "not found")
}

func TestMockClientClosed(t *testing.T) {
	m := NewMockClient("box")
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())

	_, _, code, err := m.Exec("echo hi")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestMockClientContextCancelled(t *testing.T) {
	m := NewMockClient("box")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, code, err := m.ExecContext(ctx, "echo hi")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Empty(t, m.Calls)
}
