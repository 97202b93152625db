package telegram

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ndk123-web/arthpage/pkg/conv"
	"github.com/ndk123-web/arthpage/pkg/log"
	tele "gopkg.in/telebot.v3"
)

// Telegram rejects messages over 4096 bytes; keep some room for entities.
const maxTelegramMsgLen = 4000

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// reply renders md for Telegram and sends it in as many messages as needed.
// The first chunk quotes the message being answered; command output is silent.
func (s *sender) reply(ctx context.Context, to tele.Recipient, replyTo *tele.Message, md string, silent bool) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableNotification: silent}
		if i == 0 {
			opts.ReplyTo = replyTo
		}

		if _, err := s.bot.Send(to, chunk, opts); err != nil {
			log.FromCtx(ctx).Error().Err(err).
				Int("chunk", i).
				Int("len", len(chunk)).
				Msg("failed to send telegram chunk")
			// a chunk cut through a tag is rejected as HTML, plain text still gets through
			opts.ParseMode = tele.ModeDefault
			if _, err := s.bot.Send(to, chunk, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitHTML cuts text into chunks of at most maxLen bytes, preferring paragraph
// and line breaks and never splitting a UTF-8 sequence.
func splitHTML(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}

		window := text[:cut]
		if idx := strings.LastIndex(window, "\n\n"); idx > maxLen/2 {
			cut = idx
		} else if idx := strings.LastIndex(window, "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
