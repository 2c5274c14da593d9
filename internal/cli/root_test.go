package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.Flags().Lookup("output"))
	assert.NotNil(t, rootCmd.Flags().Lookup("workers"))
	assert.NotNil(t, rootCmd.Flags().Lookup("timeout"))
}

func TestRootCommandSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["collect"])
	assert.True(t, names["init"])
	assert.True(t, names["version"])
	assert.True(t, names["completion"])
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestSetVersionInfo(t *testing.T) {
	orig := version
	defer SetVersionInfo(orig, commit, date)

	SetVersionInfo("1.0.0", "abc123", "2025-06-01")
	require.Equal(t, "1.0.0", GetVersion())
}
