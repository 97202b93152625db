package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/internal/service/ui"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const defaultSessionID = "cli-local"

type ChatRouter interface {
	HandleChatRequest(ctx context.Context, req router.Request) router.Response
}

type ReadLine struct {
	chats    ChatRouter
	commands core.CmdRouter
	settings router.SelectionSource
	pages    router.PageFetcher
	rl       *readline.Instance
}

func NewReadLine(
	cfg *config.AppConfig,
	chats ChatRouter,
	commands core.CmdRouter,
	settings router.SelectionSource,
	pages router.PageFetcher,
) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.GetHistoryPath(),
		AutoComplete:    completer(commands),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		chats:    chats,
		commands: commands,
		settings: settings,
		pages:    pages,
		rl:       rl,
	}, nil
}

func completer(commands core.CmdRouter) readline.AutoCompleter {
	items := make([]readline.PrefixCompleterInterface, 0)
	for _, cmd := range commands.ListCommands() {
		items = append(items, readline.PcItem("/"+cmd.Name()))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")
	fmt.Fprintln(r.rl.Stdout(), ui.DescStyle.Render("Paste a link with your question to ask about a page. /help lists commands."))

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.answer(ctx, r.rl.Stdout(), line)
	}
}

func (r *ReadLine) answer(ctx context.Context, out io.Writer, line string) {
	if res, handled := r.commands.Execute(ctx, defaultSessionID, line); handled {
		fmt.Fprintln(out, res)
		return
	}

	req := router.FromSelection(ctx, r.settings, line)
	req = router.AttachPage(ctx, r.pages, req)
	if req.PageURL != "" {
		fmt.Fprintln(out, ui.DescStyle.Render("[page] "+req.PageURL))
	}

	resp := r.chats.HandleChatRequest(ctx, req)
	if resp.ErrorKind != "" {
		log.FromCtx(ctx).Warn().Str("kind", string(resp.ErrorKind)).Msg("chat request failed")
		fmt.Fprintln(out, ui.FlagStyle.Render(resp.Text))
		return
	}
	fmt.Fprintln(out, resp.Text)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
