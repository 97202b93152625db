package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/ui"
	"github.com/spf13/cobra"
)

var chatsCmd = &cobra.Command{
	Use:          "chats [id]",
	Short:        "List stored chats, newest first, or print one chat",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			c, err := a.chats.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printChat(out, c)
			return nil
		}

		chats, err := a.chats.List(ctx)
		if err != nil {
			return err
		}

		if len(chats) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("No chats yet."))
			return nil
		}

		current := a.settings.Selection(ctx).ChatID
		for _, c := range chats {
			marker := " "
			if c.ID == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s  %s  %s\n",
				marker,
				ui.UsageStyle.Render(c.ID),
				c.Title,
				ui.DescStyle.Render(fmt.Sprintf("%d msgs, %s %s",
					len(c.Messages), time.UnixMilli(c.CreatedAt).Format(time.DateTime), c.Domain)),
			)
		}
		return nil
	},
}

func printChat(out io.Writer, c core.Chat) {
	fmt.Fprintln(out, ui.TitleStyle.Render(c.Title))
	if c.PageURL != "" {
		fmt.Fprintln(out, ui.DescStyle.Render(c.PageURL))
	}
	for _, m := range c.Messages {
		role := ui.UsageStyle.Render(m.Role)
		if m.Role == core.RoleAssistant {
			role = ui.FlagStyle.Render(m.Role)
		}
		fmt.Fprintf(out, "\n%s %s\n%s\n", role,
			ui.DescStyle.Render(time.UnixMilli(m.Timestamp).Format(time.DateTime)), m.Content)
	}
}

func init() {
	rootCmd.AddCommand(chatsCmd)
}
