package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ndk123-web/arthpage/internal/transport/mcpserver"
	"github.com/ndk123-web/arthpage/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve ArthPage as MCP tools over stdio",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		server := mcpserver.New(a.router, a.chats, a.settings, a.pages)
		srv.StartServices(ctx, a.services)

		// Serve until the client closes stdin or a signal arrives
		err = server.Start(ctx)
		stop()
		srv.ShutdownServices(ctx, a.services)

		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
