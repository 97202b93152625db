package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ndk123-web/arthpage/pkg/log"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ArthPage services",
	Long:  `Starts the HTTP API used by the browser panel and, when enabled, the Telegram bot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting arthpage")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		transports, err := a.initTransports(ctx)
		if err != nil {
			return err
		}

		runServices(ctx, append(a.services, transports...))
		logger.Info().Msg("arthpage has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
