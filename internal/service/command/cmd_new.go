package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ndk123-web/arthpage/internal/service/chat"
	"github.com/ndk123-web/arthpage/internal/service/router"
)

type NewChatCommand struct {
	chats     ChatCreator
	formatter *ResponseFormatter
}

func NewNewChatCommand(chats ChatCreator) *NewChatCommand {
	return &NewChatCommand{
		chats:     chats,
		formatter: NewResponseFormatter(),
	}
}

func (c *NewChatCommand) Name() string {
	return "new"
}

func (c *NewChatCommand) Description() string {
	return "Start a new chat"
}

func (c *NewChatCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	id := chat.NewChatID(time.Now())

	res := c.chats.CreateChatList(ctx, id)
	if res.Status != router.StatusSuccess {
		return "", fmt.Errorf("failed to create chat: %w", errors.New(res.Message))
	}

	return c.formatter.Combine(
		c.formatter.Success("New chat started"),
		c.formatter.Label("Chat", id),
	), nil
}
