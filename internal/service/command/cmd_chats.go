package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndk123-web/arthpage/internal/core"
)

const (
	maxListedChats   = 10
	maxShownMessages = 6
)

type ChatsCommand struct {
	chats     core.ChatRepository
	settings  core.SelectionStore
	formatter *ResponseFormatter
}

func NewChatsCommand(chats core.ChatRepository, settings core.SelectionStore) *ChatsCommand {
	return &ChatsCommand{
		chats:     chats,
		settings:  settings,
		formatter: NewResponseFormatter(),
	}
}

func (c *ChatsCommand) Name() string {
	return "chats"
}

func (c *ChatsCommand) Description() string {
	return "List recent chats or switch to one"
}

func (c *ChatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) > 0 {
		return c.open(ctx, args[0])
	}

	chats, err := c.chats.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list chats: %w", err)
	}

	if len(chats) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Chats"),
			c.formatter.Label("Status", "No chats yet."),
		), nil
	}

	current := c.settings.Selection(ctx).ChatID
	items := make([]string, 0, maxListedChats)
	for i, ch := range chats {
		if i == maxListedChats {
			break
		}
		items = append(items, c.formatter.ChatLine(ch, ch.ID == current))
	}

	return c.formatter.Combine(
		c.formatter.Info("Chats"),
		c.formatter.Label("Total", fmt.Sprintf("%d", len(chats))),
		c.formatter.List(items),
		c.formatter.Usage("/chats [id]"),
	), nil
}

// open makes chatID current and shows its tail.
func (c *ChatsCommand) open(ctx context.Context, chatID string) (string, error) {
	ch, err := c.chats.Get(ctx, chatID)
	if err != nil {
		return "", err
	}

	err = c.settings.UpdateSelection(ctx, func(s *core.Selection) {
		s.ChatID = ch.ID
	})
	if err != nil {
		return "", fmt.Errorf("failed to switch chat: %w", err)
	}

	msgs := ch.Messages
	if len(msgs) > maxShownMessages {
		msgs = msgs[len(msgs)-maxShownMessages:]
	}

	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(c.formatter.Message(m))
	}

	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Switched to: %s", ch.Title)),
		c.formatter.Label("Chat", ch.ID),
		sb.String(),
	), nil
}
