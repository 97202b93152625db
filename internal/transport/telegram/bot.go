package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type ChatRouter interface {
	HandleChatRequest(ctx context.Context, req router.Request) router.Response
}

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	chats    ChatRouter
	commands core.CmdRouter
	settings router.SelectionSource
	pages    router.PageFetcher
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	chats ChatRouter,
	commands core.CmdRouter,
	settings router.SelectionSource,
	pages router.PageFetcher,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		chats:    chats,
		commands: commands,
		settings: settings,
		pages:    pages,
		ownerID:  cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	menu := make([]tele.Command, 0)
	for _, cmd := range b.commands.ListCommands() {
		menu = append(menu, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	if err := b.bot.SetCommands(menu); err != nil {
		logger.Warn().Err(err).Msg("failed to publish telegram command menu")
	}

	logger.Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply, isCommand := b.answer(ctx, sessionID, c.Text())
	return b.sender.reply(ctx, c.Recipient(), c.Message(), reply, isCommand)
}

// answer runs a slash command or asks the selected model, fetching any linked page first.
func (b *Bot) answer(ctx context.Context, sessionID, text string) (string, bool) {
	if out, handled := b.commands.Execute(ctx, sessionID, text); handled {
		return out, true
	}

	req := router.FromSelection(ctx, b.settings, text)
	req = router.AttachPage(ctx, b.pages, req)

	resp := b.chats.HandleChatRequest(ctx, req)
	if resp.ErrorKind != "" {
		log.FromCtx(ctx).Warn().
			Str("session_id", sessionID).
			Str("kind", string(resp.ErrorKind)).
			Msg("chat request failed")
	}
	return resp.Text, false
}
