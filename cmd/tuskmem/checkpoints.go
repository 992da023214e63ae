package main

import (
	"fmt"

	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
	"github.com/sandevgo/tuskmem/internal/service/ui"
	"github.com/spf13/cobra"
)

var checkpointsCmd = &cobra.Command{
	Use:          "checkpoints",
	Short:        "List saved agents, newest first",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		cfg, err := loadConfig(ctx, cmd, nil)
		if err != nil {
			return err
		}

		infos, err := checkpoint.NewStore(cfg.GetSavedStatePath()).List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("No saved agents in "+cfg.GetSavedStatePath()))
			return nil
		}

		fmt.Fprintln(out, ui.TitleStyle.Render("SAVED AGENTS"))
		for _, info := range infos {
			fmt.Fprintf(out, "  %s  %s  %s\n", info.Name, ui.DescStyle.Render(info.ModTime.Format("2006-01-02 15:04:05")), ui.CheckpointHalves(info.HasMemory))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
}
