package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sandevgo/tuskmem/internal/providers/llm"
	"github.com/sandevgo/tuskmem/internal/service/ingest"
	"github.com/sandevgo/tuskmem/pkg/log"
	"github.com/spf13/cobra"
)

var indexOut string

var indexCmd = &cobra.Command{
	Use:          "index <glob>",
	Short:        "Embed files into an archival index database",
	Long:         `Chunks every file matching the glob (or every file in a directory), embeds the chunks and saves them for --archival-index.`,
	Args:         cobra.ExactArgs(1),
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

		embedder, err := llm.NewEmbedder(ctx, &cfg.Backend)
		if err != nil {
			return err
		}

		out := indexOut
		if out == "" {
			out = filepath.Join(cfg.GetRuntimePath(), "archival", "index_"+time.Now().Format("20060102_150405")+".db")
		}

		index, err := ingest.NewLoader(cfg, embedder, ingest.NewTokenizer(ctx)).BuildIndex(ctx, args[0], out)
		if err != nil {
			return err
		}

		log.FromCtx(ctx).Info().Str("path", out).Int("entries", index.Len()).Msg("index built")
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d chunks. Start a session with --archival-index=%s\n", index.Len(), out)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexOut, "out", "o", "", "index database to write")
	rootCmd.AddCommand(indexCmd)
}
