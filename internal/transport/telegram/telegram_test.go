package telegram

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHTML(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, splitHTML("hello", 10))
	})

	t.Run("splits at a newline when possible", func(t *testing.T) {
		text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
		assert.Equal(t, []string{"aaaaaa", "bbbbbb"}, splitHTML(text, 10))
	})

	t.Run("hard cut without newlines", func(t *testing.T) {
		chunks := splitHTML(strings.Repeat("x", 25), 10)
		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 10)
		}
	})

	t.Run("prefers a paragraph break", func(t *testing.T) {
		text := "aaaaaaa\n\nb\nccccc"
		assert.Equal(t, []string{"aaaaaaa", "b\nccccc"}, splitHTML(text, 12))
	})

	t.Run("keeps multibyte runes whole", func(t *testing.T) {
		text := strings.Repeat("अर्थ", 10)
		chunks := splitHTML(text, 16)
		assert.Equal(t, text, strings.Join(chunks, ""))
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), c)
		}
	})
}

type stubCommands struct{}

func (stubCommands) Execute(_ context.Context, _ string, input string) (string, bool) {
	if strings.HasPrefix(input, "/") {
		return "command output", true
	}
	return "", false
}

func (stubCommands) ListCommands() []core.Command { return nil }

type stubSettings struct{}

func (stubSettings) Selection(context.Context) core.Selection {
	return core.Selection{Provider: "openai", ChatID: "chat-1"}
}
func (stubSettings) Credentials(context.Context, core.ProviderKind) (core.Credentials, bool) {
	return core.Credentials{}, false
}
func (stubSettings) OllamaURL() string { return "" }

type recordingRouter struct {
	got router.Request
}

func (r *recordingRouter) HandleChatRequest(_ context.Context, req router.Request) router.Response {
	r.got = req
	return router.Response{Text: "model reply", ChatID: req.ChatID}
}

type stubPages struct{}

func (stubPages) Fetch(_ context.Context, u string) (core.PageContent, error) {
	return core.PageContent{URL: u, Title: "Page", Content: "page body"}, nil
}

func TestBot_Answer(t *testing.T) {
	rr := &recordingRouter{}
	b := &Bot{chats: rr, commands: stubCommands{}, settings: stubSettings{}, pages: stubPages{}}
	ctx := context.Background()

	out, isCommand := b.answer(ctx, "telegram-1", "/help")
	assert.Equal(t, "command output", out)
	assert.True(t, isCommand)

	out, isCommand = b.answer(ctx, "telegram-1", "summarize https://go.dev/blog")
	assert.Equal(t, "model reply", out)
	assert.False(t, isCommand)
	assert.Equal(t, "openai", rr.got.Provider)
	assert.Equal(t, "chat-1", rr.got.ChatID)
	assert.Equal(t, "https://go.dev/blog", rr.got.PageURL)
	assert.Equal(t, "summarize https://go.dev/blog", rr.got.RawUserText)
	assert.Contains(t, rr.got.Prompt, "page body")
}
