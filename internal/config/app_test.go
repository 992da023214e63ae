package config

import (
	"path/filepath"
	"testing"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TUSK_RUNTIME_PATH", dir)
	t.Setenv("TUSK_MODEL", "gpt-3.5-turbo")
	t.Setenv("TUSK_AGENT_FIRST", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.RuntimePath)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Backend.GetModel())
	assert.True(t, cfg.AgentFirst)
	assert.Equal(t, 8000, cfg.ContextBudget)
	assert.InDelta(t, 0.75, cfg.WarnThreshold, 1e-9)
	assert.Equal(t, "sk-test", cfg.Backend.OpenAIAPIKey)
	assert.Equal(t, filepath.Join(dir, "saved_state"), cfg.GetSavedStatePath())
	assert.NoError(t, cfg.Validate())
}

func TestAppConfig_MemoryKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  AppConfig
		want core.MemoryKind
	}{
		{"no archival source", AppConfig{}, core.MemoryPlain},
		{"files", AppConfig{ArchivalFiles: "docs/*.md"}, core.MemoryPreloaded},
		{"sql database", AppConfig{ArchivalSQLDB: "data.db"}, core.MemoryPreloaded},
		{"index", AppConfig{ArchivalIndex: "index.db"}, core.MemoryIndexed},
		{"files with embeddings", AppConfig{ArchivalFilesEmbed: "docs/*.md"}, core.MemoryIndexed},
	}

	for i := range tests {
		tt := &tests[i]
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.MemoryKind())
		})
	}
}

func TestAppConfig_ValidateRejectsTwoSources(t *testing.T) {
	cfg := &AppConfig{
		ContextBudget: 100,
		WarnThreshold: 0.5,
		Transport:     "cli",
		ArchivalFiles: "a/*.txt",
		ArchivalSQLDB: "b.db",
		Backend:       BackendConfig{Provider: ProviderOllama, OllamaBaseURL: "http://localhost:11434"},
	}
	assert.ErrorIs(t, cfg.Validate(), ErrContradictoryConfig)

	cfg.ArchivalSQLDB = ""
	assert.NoError(t, cfg.Validate())
}
