package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tuskmem/internal/core"
)

const (
	DefaultModel   = "gpt-4"
	AlternateModel = "gpt-3.5-turbo"
)

type AppConfig struct {
	RuntimePath string `env:"TUSK_RUNTIME_PATH" envDefault:".tuskmem"`

	// Transport selects the console driving the session: cli or telegram.
	Transport string `env:"TUSK_TRANSPORT" envDefault:"cli"`

	Model   string `env:"TUSK_MODEL" envDefault:"gpt-4"`
	Persona string `env:"TUSK_PERSONA" envDefault:"sam"`
	Human   string `env:"TUSK_HUMAN" envDefault:"basic"`

	// AgentFirst opens the session with a step on a synthetic login message
	// instead of waiting for the operator.
	AgentFirst bool `env:"TUSK_AGENT_FIRST" envDefault:"false"`
	NoVerify  bool `env:"TUSK_NO_VERIFY" envDefault:"false"`

	// Context Management
	ContextBudget     int     `env:"CONTEXT_BUDGET_TOKENS" envDefault:"8000"`
	ContextWindowSize int     `env:"CONTEXT_WINDOW_SIZE" envDefault:"0"`
	WarnThreshold     float64 `env:"MEMORY_WARNING_THRESHOLD" envDefault:"0.75"`

	// Archival sources, at most one may be set
	ArchivalIndex      string `env:"ARCHIVAL_INDEX_PATH"`
	ArchivalFiles      string `env:"ARCHIVAL_FILES"`
	ArchivalFilesEmbed string `env:"ARCHIVAL_FILES_EMBED"`
	ArchivalSQLDB      string `env:"ARCHIVAL_SQLDB"`

	ChunkTokens  int `env:"ARCHIVAL_CHUNK_TOKENS" envDefault:"300"`
	ChunkOverlap int `env:"ARCHIVAL_CHUNK_OVERLAP" envDefault:"30"`

	Backend BackendConfig
}

func LoadAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse app config: %w", err)
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	c.Backend.Model = c.Model
	return c, nil
}

// MemoryKind derives the persistence manager variant from the archival sources.
func (c *AppConfig) MemoryKind() core.MemoryKind {
	switch {
	case c.ArchivalIndex != "" || c.ArchivalFilesEmbed != "":
		return core.MemoryIndexed
	case c.ArchivalFiles != "" || c.ArchivalSQLDB != "":
		return core.MemoryPreloaded
	default:
		return core.MemoryPlain
	}
}

func (c *AppConfig) Validate() error {
	sources := 0
	for _, s := range []string{c.ArchivalIndex, c.ArchivalFiles, c.ArchivalFilesEmbed, c.ArchivalSQLDB} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("%w: only one archival source may be selected", ErrContradictoryConfig)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("%w: context budget must be positive", ErrContradictoryConfig)
	}
	if c.WarnThreshold <= 0 || c.WarnThreshold > 1 {
		return fmt.Errorf("%w: memory warning threshold must be in (0, 1]", ErrContradictoryConfig)
	}
	if c.Transport != "cli" && c.Transport != "telegram" {
		return fmt.Errorf("%w: unknown transport %q", ErrContradictoryConfig, c.Transport)
	}
	return c.Backend.Validate()
}

func (c *AppConfig) IsTelegramSelected() bool {
	return c.Transport == "telegram"
}

func (c *AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c *AppConfig) GetSavedStatePath() string {
	return filepath.Join(c.RuntimePath, "saved_state")
}

func (c *AppConfig) GetSavedChatsPath() string {
	return filepath.Join(c.RuntimePath, "saved_chats")
}

func (c *AppConfig) GetStatePath() string {
	return filepath.Join(c.RuntimePath, "state.env")
}

func (c *AppConfig) GetPersonasPath() string {
	return filepath.Join(c.RuntimePath, "personas")
}

func (c *AppConfig) GetHumansPath() string {
	return filepath.Join(c.RuntimePath, "humans")
}
