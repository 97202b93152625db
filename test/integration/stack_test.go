package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGemini(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-goog-api-key"))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Go is a programming language."}]}}]}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, h http.Handler, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func listChats(t *testing.T, h http.Handler) []core.Chat {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var chats []core.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	return chats
}

func TestStack_ChatRoundTrip(t *testing.T) {
	for _, backend := range []string{config.StoreSQLite, config.StoreBolt} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			var calls atomic.Int32
			gemini := fakeGemini(t, &calls)
			providers := config.ProvidersConfig{GeminiBaseURL: gemini.URL, GeminiModel: "gemini-1.5-flash"}

			stack := test.NewStack(t, test.OpenBlobs(t, backend, dir), dir, providers)
			require.NoError(t, stack.Settings.SetCredentials(ctx, core.ProviderGemini, core.Credentials{APIKey: "test-key"}))

			out := post(t, stack.Handler, `{"type":"chat_message","provider":"gemini","mode":"online",
				"prompt":"full prompt with page text","actualUserPrompt":"What is Go?","pageUrl":"https://www.go.dev/doc"}`)
			assert.Equal(t, "Go is a programming language.", out["response"])
			chatID, _ := out["chatListId"].(string)
			require.NotEmpty(t, chatID)

			stack.Router.Wait()

			chats := listChats(t, stack.Handler)
			require.Len(t, chats, 1)
			assert.Equal(t, chatID, chats[0].ID)
			assert.Equal(t, "What is Go?", chats[0].Title)
			assert.Equal(t, "go.dev", chats[0].Domain)
			require.Len(t, chats[0].Messages, 2)
			assert.Equal(t, core.RoleUser, chats[0].Messages[0].Role)
			assert.Equal(t, "What is Go?", chats[0].Messages[0].Content)
			assert.Equal(t, core.RoleAssistant, chats[0].Messages[1].Role)
			assert.Less(t, chats[0].Messages[0].Timestamp, chats[0].Messages[1].Timestamp)
			assert.Equal(t, chatID, stack.Settings.Selection(ctx).ChatID)

			// a second question in the same chat appends
			post(t, stack.Handler, `{"type":"chat_message","provider":"gemini","prompt":"And more?","currentChatListId":"`+chatID+`"}`)
			stack.Router.Wait()

			got, err := stack.Chats.Get(ctx, chatID)
			require.NoError(t, err)
			assert.Len(t, got.Messages, 4)
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestStack_MissingCredentialIsNotStored(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	gemini := fakeGemini(t, &calls)
	stack := test.NewStack(t, test.OpenBlobs(t, config.StoreSQLite, dir), dir,
		config.ProvidersConfig{GeminiBaseURL: gemini.URL, GeminiModel: "gemini-1.5-flash"})

	out := post(t, stack.Handler, `{"type":"chat_message","provider":"gemini","prompt":"hi"}`)
	assert.Equal(t, core.MissingCredentialMessage(core.ProviderGemini), out["response"])

	stack.Router.Wait()
	assert.Empty(t, listChats(t, stack.Handler))
	assert.Zero(t, calls.Load())
}

func TestStack_HistorySurvivesRestart(t *testing.T) {
	for _, backend := range []string{config.StoreSQLite, config.StoreBolt} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			blobs, closeBlobs := test.OpenBlobsNoCleanup(t, backend, dir)
			stack := test.NewStack(t, blobs, dir, config.ProvidersConfig{})
			require.Equal(t, "success", stack.Router.CreateChatList(ctx, "chat-keep").Status)
			require.NoError(t, stack.Chats.Append(ctx, "chat-keep", "question", "answer", nil))
			require.NoError(t, closeBlobs())

			reopened := test.NewStack(t, test.OpenBlobs(t, backend, dir), dir, config.ProvidersConfig{})
			chats := listChats(t, reopened.Handler)
			require.Len(t, chats, 1)
			assert.Equal(t, "chat-keep", chats[0].ID)
			assert.Equal(t, "question", chats[0].Title)
			assert.Len(t, chats[0].Messages, 2)
			assert.Equal(t, "chat-keep", reopened.Settings.Selection(ctx).ChatID)
		})
	}
}
