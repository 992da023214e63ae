package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFlags_OverrideOnlyWhenSet(t *testing.T) {
	var f sessionFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--persona", "pirate", "--model", "gpt-3.5-turbo", "--first", "--archival-sqldb", "data.db"}))

	cfg := &config.AppConfig{Persona: "sam", Human: "basic", Model: config.DefaultModel, NoVerify: true}
	f.apply(cmd, cfg)

	assert.Equal(t, "pirate", cfg.Persona)
	assert.Equal(t, "basic", cfg.Human)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Backend.Model)
	assert.False(t, cfg.AgentFirst)
	assert.True(t, cfg.NoVerify)
	assert.Equal(t, "data.db", cfg.ArchivalSQLDB)
	assert.False(t, cfg.Backend.UseAzure)
}

func TestSessionFlags_AgentFirst(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  bool
		want bool
	}{
		{"unset keeps env", nil, true, true},
		{"agent first", []string{"--agent-first"}, false, true},
		{"user first wins", []string{"--agent-first", "--first"}, false, false},
		{"first overrides env", []string{"--first"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f sessionFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg := &config.AppConfig{AgentFirst: tt.env}
			f.apply(cmd, cfg)
			assert.Equal(t, tt.want, cfg.AgentFirst)
		})
	}
}

func TestInitEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, initEnv(context.Background(), dir))

	t.Setenv("TUSK_TEST_KEEP", "shell")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TUSK_TEST_KEEP=file\nTUSK_TEST_NEW=file\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("TUSK_TEST_NEW") })

	require.NoError(t, initEnv(context.Background(), dir))
	assert.Equal(t, "shell", os.Getenv("TUSK_TEST_KEEP"))
	assert.Equal(t, "file", os.Getenv("TUSK_TEST_NEW"))
}
