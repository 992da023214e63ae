package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/providers/mcp"
	"github.com/sandevgo/tuskmem/internal/service/command"
	"github.com/sandevgo/tuskmem/internal/service/session"
	"github.com/sandevgo/tuskmem/internal/transport/cli"
	"github.com/sandevgo/tuskmem/internal/transport/telegram"
	"github.com/sandevgo/tuskmem/pkg/log"
	"github.com/sandevgo/tuskmem/pkg/srv"
	"github.com/spf13/cobra"
)

var (
	runFlags  sessionFlags
	mcpAddr   string
	transport string
)

var runCmd = &cobra.Command{
	Use:           "run",
	Short:         "Start a conversation with the agent",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		cfg, err := loadConfig(ctx, cmd, &runFlags)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("transport") {
			cfg.Transport = transport
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}

		var services []srv.Service
		console, consoleSvc, err := newConsole(ctx, cfg)
		if err != nil {
			return err
		}
		if consoleSvc != nil {
			services = append(services, consoleSvc)
		}
		if mcpAddr != "" {
			services = append(services, mcp.NewHTTPService(mcp.NewServer(a.agent), mcpAddr))
		}
		srv.StartServices(ctx, services)

		if cfg.Model != config.DefaultModel {
			console.Notify(ctx, core.NoticeWarn, fmt.Sprintf(
				"You are running with %s, which is not officially supported (yet). Expect bugs!", cfg.Model))
		}
		for _, line := range a.report {
			console.Notify(ctx, core.NoticeInfo, line)
		}

		if err := offerSavedAgent(ctx, a, console); err != nil {
			logger.Warn().Err(err).Msg("saved agent not loaded")
		}

		router := command.NewCommands(cfg, a.agent, a.backend, a.store, a.state)

		if os.Getenv("GITHUB_ACTIONS") != "" {
			logger.Info().Msg("running in CI, exiting after setup")
			stop()
			return srv.ShutdownServices(ctx, services)
		}

		logger.Info().
			Str("model", a.agent.Model()).
			Str("memory", string(a.agent.Memory().Kind())).
			Str("transport", cfg.Transport).
			Msg("session starting")

		driver := session.NewDriver(cfg, a.agent, console, router, a.store, a.state)
		runErr := driver.Run(ctx)

		stop()
		if err := srv.ShutdownServices(ctx, services); err != nil {
			logger.Warn().Err(err).Msg("services did not shut down cleanly")
		}
		return runErr
	},
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "also serve the agent's memory over MCP streamable HTTP on this address")
	runCmd.Flags().StringVar(&transport, "transport", "", "console to chat from: cli or telegram")
	rootCmd.AddCommand(runCmd)
}

func newConsole(ctx context.Context, cfg *config.AppConfig) (core.Console, srv.Service, error) {
	if !cfg.IsTelegramSelected() {
		return cli.NewConsole(os.Stdin, os.Stdout), nil, nil
	}

	tgCfg, err := config.LoadTelegramConfig()
	if err != nil {
		return nil, nil, err
	}
	console, err := telegram.NewConsole(ctx, tgCfg)
	if err != nil {
		return nil, nil, err
	}
	return console, console, nil
}

func offerSavedAgent(ctx context.Context, a *app, console core.Console) error {
	path := a.savedAgent()
	if path == "" {
		return nil
	}

	ok, err := console.Confirm(ctx, fmt.Sprintf("Would you like to load the saved agent from %s?", path))
	if err != nil || !ok {
		return err
	}

	res, err := a.restore(ctx, path)
	if err != nil {
		console.Notify(ctx, core.NoticeError, "Failed to load the saved agent: "+err.Error())
		return err
	}

	lines := []string{"Loaded agent from " + res.AgentPath}
	if res.Degraded {
		lines = append(lines, "Memory was not restored ("+res.MemoryErr.Error()+"), starting with a fresh archive.")
	}
	console.Notify(ctx, core.NoticeSuccess, strings.Join(lines, "\n"))
	return nil
}
