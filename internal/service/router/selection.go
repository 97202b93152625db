package router

import (
	"context"

	"github.com/ndk123-web/arthpage/internal/core"
)

// SelectionSource is the settings view needed by transports without a panel of their own.
type SelectionSource interface {
	Selection(ctx context.Context) core.Selection
	Credentials(ctx context.Context, provider core.ProviderKind) (core.Credentials, bool)
	OllamaURL() string
}

// Overrides replaces parts of the saved selection for a single request.
type Overrides struct {
	Provider string
	Mode     string
	Model    string
	ChatID   string
}

// FromSelection fills a chat request from the saved selection. The model falls back to
// the one stored with the provider's credentials; an empty model lets the dispatcher
// pick the provider default.
func FromSelection(ctx context.Context, src SelectionSource, prompt string) Request {
	return FromSelectionWith(ctx, src, prompt, Overrides{})
}

// FromSelectionWith is FromSelection with per-request overrides applied before the
// model is resolved. The saved model only survives when the overrides keep the same
// backend.
func FromSelectionWith(ctx context.Context, src SelectionSource, prompt string, o Overrides) Request {
	sel := src.Selection(ctx)

	req := Request{
		Provider:    sel.Provider,
		Mode:        sel.Mode,
		Prompt:      prompt,
		RawUserText: prompt,
		ChatID:      sel.ChatID,
		OfflineURL:  src.OllamaURL(),
	}
	if req.Provider == "" {
		req.Provider = string(core.ProviderGemini)
	}
	saved, savedOK := backend(req.Provider, req.Mode)

	if o.Provider != "" {
		req.Provider = o.Provider
	}
	if o.Mode != "" {
		req.Mode = o.Mode
	}
	if o.ChatID != "" {
		req.ChatID = o.ChatID
	}

	kind, ok := backend(req.Provider, req.Mode)
	switch {
	case o.Model != "":
		req.Model = o.Model
	case o.Provider == "" && o.Mode == "", ok && savedOK && kind == saved:
		req.Model = sel.Model
	}

	if req.Model == "" && ok {
		if c, found := src.Credentials(ctx, kind); found {
			req.Model = c.Model
		}
	}
	return req
}

// backend is the provider that will actually answer for provider and mode.
func backend(provider, mode string) (core.ProviderKind, bool) {
	if m, _ := core.ParseMode(mode); m == core.ModeOffline {
		return core.ProviderOllama, true
	}
	return core.ParseProviderKind(provider)
}
