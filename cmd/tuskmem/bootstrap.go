package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/providers/llm"
	"github.com/sandevgo/tuskmem/internal/service/agent"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
	"github.com/sandevgo/tuskmem/internal/service/ingest"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/sandevgo/tuskmem/pkg/log"
	"github.com/spf13/cobra"
)

// sessionFlags are the legacy command line switches; each one overrides the
// matching environment setting only when given.
type sessionFlags struct {
	persona            string
	human              string
	model              string
	first              bool
	agentFirst         bool
	noVerify           bool
	useAzure           bool
	archivalIndex      string
	archivalFiles      string
	archivalFilesEmbed string
	archivalSQLDB      string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.persona, "persona", "", "persona name or text")
	flags.StringVar(&f.human, "human", "", "human profile name or text")
	flags.StringVar(&f.model, "model", "", "chat model")
	flags.BoolVar(&f.first, "first", false, "let the user speak first (default)")
	flags.BoolVar(&f.agentFirst, "agent-first", false, "let the agent open the conversation")
	flags.BoolVar(&f.noVerify, "no-verify", false, "skip verification of the agent's first reply")
	flags.BoolVar(&f.useAzure, "use-azure", false, "use Azure OpenAI")
	flags.StringVar(&f.archivalIndex, "archival-index", "", "load a saved archival index database")
	flags.StringVar(&f.archivalFiles, "archival-files", "", "preload files matching a glob into archival memory")
	flags.StringVar(&f.archivalFilesEmbed, "archival-files-embed", "", "embed files matching a glob into an archival index")
	flags.StringVar(&f.archivalSQLDB, "archival-sqldb", "", "preload the first table of a sqlite database into archival memory")
}

func (f *sessionFlags) apply(cmd *cobra.Command, cfg *config.AppConfig) {
	flags := cmd.Flags()
	set := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}

	set("persona", &cfg.Persona, f.persona)
	set("human", &cfg.Human, f.human)
	set("archival-index", &cfg.ArchivalIndex, f.archivalIndex)
	set("archival-files", &cfg.ArchivalFiles, f.archivalFiles)
	set("archival-files-embed", &cfg.ArchivalFilesEmbed, f.archivalFilesEmbed)
	set("archival-sqldb", &cfg.ArchivalSQLDB, f.archivalSQLDB)

	if flags.Changed("model") {
		cfg.Model = f.model
		cfg.Backend.Model = f.model
	}
	if flags.Changed("agent-first") {
		cfg.AgentFirst = f.agentFirst
	}
	if flags.Changed("first") && f.first {
		cfg.AgentFirst = false
	}
	if flags.Changed("no-verify") {
		cfg.NoVerify = f.noVerify
	}
	if flags.Changed("use-azure") {
		cfg.Backend.UseAzure = f.useAzure
	}
}

// loadConfig reads the runtime .env (without overriding the environment),
// parses the configuration and applies command line overrides.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *sessionFlags) (*config.AppConfig, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}

	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, err
	}
	if flags != nil {
		flags.apply(cmd, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// app is everything a session is built from.
type app struct {
	cfg     *config.AppConfig
	backend *llm.DynamicProvider
	agent   *agent.Agent
	store   *checkpoint.Store
	state   *config.StateFile
	report  []string
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	backend, err := llm.NewDynamicProvider(ctx, &cfg.Backend)
	if err != nil {
		return nil, err
	}

	var embedder core.Embedder
	if cfg.MemoryKind() == core.MemoryIndexed {
		if embedder, err = llm.NewEmbedder(ctx, &cfg.Backend); err != nil {
			return nil, err
		}
	}

	archival := ingest.NewLoader(cfg, embedder, ingest.NewTokenizer(ctx)).LoadOrEmpty(ctx)

	ag, err := agent.NewAgent(cfg, backend, memory.NewTokenCounter(ctx), archival.Options)
	if err != nil {
		return nil, err
	}
	for _, notice := range archival.Notices {
		if err := ag.Memory().AppendToRecall(ctx, notice); err != nil {
			return nil, fmt.Errorf("append archival notice: %w", err)
		}
	}

	state, err := config.OpenStateFile(cfg.GetStatePath())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		backend: backend,
		agent:   ag,
		store:   checkpoint.NewStore(cfg.GetSavedStatePath()),
		state:   state,
		report:  archival.Report,
	}, nil
}

// savedAgent returns the agent artifact recorded by the last save, if it
// still exists.
func (a *app) savedAgent() string {
	path := a.state.State().AgentSaveFile
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// restore loads the named checkpoint, or the one recorded by the last save
// when name is empty.
func (a *app) restore(ctx context.Context, name string) (*checkpoint.LoadResult, error) {
	if name == "" {
		name = a.savedAgent()
	}
	return a.store.Load(ctx, name, a.agent)
}
