package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/spf13/cobra"
)

var askFlags struct {
	provider string
	mode     string
	model    string
	chatID   string
	url      string
}

var askCmd = &cobra.Command{
	Use:          "ask [question]",
	Short:        "Ask a single question and print the reply",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			a.close(closeCtx)
		}()

		question := strings.Join(args, " ")
		prompt := question
		if askFlags.url != "" {
			prompt = askFlags.url + " " + question
		}

		req := router.FromSelectionWith(ctx, a.settings, prompt, router.Overrides{
			Provider: askFlags.provider,
			Mode:     askFlags.mode,
			Model:    askFlags.model,
			ChatID:   askFlags.chatID,
		})
		req.RawUserText = question
		req = router.AttachPage(ctx, a.pages, req)

		resp := a.router.HandleChatRequest(ctx, req)
		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
		if resp.ErrorKind != "" {
			return errors.New(string(resp.ErrorKind))
		}
		return nil
	},
}

func init() {
	f := askCmd.Flags()
	f.StringVarP(&askFlags.provider, "provider", "p", "", "provider: gemini, openai, deepseek, claude, ollama")
	f.StringVar(&askFlags.mode, "mode", "", "online or offline")
	f.StringVarP(&askFlags.model, "model", "m", "", "model name, provider default when empty")
	f.StringVar(&askFlags.chatID, "chat", "", "chat id to append to, the current chat when empty")
	f.StringVarP(&askFlags.url, "url", "u", "", "page to ask about")
	rootCmd.AddCommand(askCmd)
}
