package command

import (
	"context"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
)

// SettingsStore is what the commands read and change.
type SettingsStore interface {
	core.SelectionStore
	Credentials(ctx context.Context, provider core.ProviderKind) (core.Credentials, bool)
}

type ChatCreator interface {
	CreateChatList(ctx context.Context, chatID string) router.StatusResponse
}
