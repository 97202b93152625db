package main

import (
	"os"
	"os/signal"

	"github.com/ndk123-web/arthpage/internal/transport/cli"
	"github.com/ndk123-web/arthpage/pkg/srv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:          "chat",
	Short:        "Interactive chat in the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		repl, err := cli.NewReadLine(a.cfg, a.router, a.commands, a.settings, a.pages)
		if err != nil {
			return err
		}

		srv.StartServices(ctx, a.services)

		// The REPL returns on exit or EOF; stop the rest with it
		err = repl.Start(ctx)
		_ = repl.Shutdown(ctx)
		stop()
		srv.ShutdownServices(ctx, a.services)

		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
