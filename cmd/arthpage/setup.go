package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/service/installer"
	"github.com/ndk123-web/arthpage/internal/storage/settings"
	"github.com/ndk123-web/arthpage/pkg/log"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:           "setup",
	Short:         "Choose a provider and store its API key",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		cfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}

		st, err := settings.Open(ctx, cfg.GetSettingsPath())
		if err != nil {
			return err
		}

		state, err := installer.RunWizard(cfg, st)
		if err != nil {
			return err
		}

		if state.EnableTelegram && !state.EnvWritten {
			logger.Warn().Str("path", cfg.GetEnvPath()).
				Msg("existing .env kept, add TELEGRAM_TOKEN, TELEGRAM_OWNER_ID and ARTHPAGE_ENABLE_TELEGRAM=true yourself")
		}

		// Load the newly created .env file so the next parse sees the values
		if state.EnvWritten {
			if err := godotenv.Load(cfg.GetEnvPath()); err != nil {
				logger.Warn().Err(err).Str("path", cfg.GetEnvPath()).Msg("failed to load .env file")
			}
		}

		logger.Info().Msgf("settings stored at: %s", cfg.GetSettingsPath())
		fmt.Fprintf(cmd.OutOrStdout(), "Setup complete! Using %s. You can now run 'arthpage start'.\n", state.Provider.DisplayName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
