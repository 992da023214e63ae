package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/service/installer"
	"github.com/sandevgo/tuskmem/pkg/log"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:           "setup",
	Short:         "Configure the backend and console interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if _, err := installer.RunWizard(ctx, runtimePath); err != nil {
			return err
		}

		// Validate what was written the same way a session will read it.
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
			return err
		}
		cfg, err := config.LoadAppConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			logger.Warn().Err(err).Msg("configuration is incomplete")
			return err
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Setup complete! You can now run 'tuskmem run'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
