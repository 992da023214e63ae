package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sandevgo/tuskmem/internal/providers/mcp"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
	"github.com/sandevgo/tuskmem/pkg/log"
	"github.com/spf13/cobra"
)

var (
	mcpFlags      sessionFlags
	mcpCheckpoint string
	mcpFresh      bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose a saved agent's memory as MCP tools",
}

var mcpServeCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve memory tools over stdio",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		a, err := openMemory(ctx, cmd)
		if err != nil {
			return err
		}
		return mcp.ServeStdio(ctx, mcp.NewServer(a.agent), os.Stdin, os.Stdout)
	},
}

var mcpCallCmd = &cobra.Command{
	Use:          "call <tool> [json-arguments]",
	Short:        "Call one memory tool and print the result",
	Example:      `  tuskmem mcp call archival_memory_search '{"query": "birthday", "k": 3}'`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		var arguments map[string]any
		if len(args) == 2 {
			if err := json.Unmarshal([]byte(args[1]), &arguments); err != nil {
				return fmt.Errorf("invalid tool arguments: %w", err)
			}
		}

		a, err := openMemory(ctx, cmd)
		if err != nil {
			return err
		}

		client, err := mcp.NewInProcessClient(ctx, mcp.NewServer(a.agent))
		if err != nil {
			return err
		}
		defer client.Close()

		out, err := client.Call(ctx, args[0], arguments)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{mcpServeCmd, mcpCallCmd} {
		mcpFlags.register(c)
		c.Flags().StringVar(&mcpCheckpoint, "checkpoint", "", "checkpoint to serve (default: the last saved one)")
		c.Flags().BoolVar(&mcpFresh, "fresh", false, "serve a fresh memory instead of a checkpoint")
		mcpCmd.AddCommand(c)
	}
	rootCmd.AddCommand(mcpCmd)
}

// openMemory builds an agent the way a session would and restores a
// checkpoint into it. Having no checkpoint at all is not an error.
func openMemory(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(ctx, cmd, &mcpFlags)
	if err != nil {
		return nil, err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if mcpFresh {
		return a, nil
	}

	res, err := a.restore(ctx, mcpCheckpoint)
	switch {
	case errors.Is(err, checkpoint.ErrNoCheckpoint) && mcpCheckpoint == "":
		log.FromCtx(ctx).Info().Msg("no saved agent, serving a fresh memory")
	case err != nil:
		return nil, err
	case res.Degraded:
		log.FromCtx(ctx).Warn().Err(res.MemoryErr).Str("name", res.Name).Msg("serving without the saved memory")
	}
	return a, nil
}
