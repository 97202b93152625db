package page

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.Example.com/path?q=1", "example.com"},
		{"http://localhost:8080/x", "localhost"},
		{"go.dev/doc", ""},
		{"", ""},
		{"::bad", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.in), tt.in)
	}

	assert.Nil(t, MetaFromURL(""))
	assert.Equal(t, &core.PageMeta{URL: "https://go.dev/doc", Domain: "go.dev"}, MetaFromURL(" https://go.dev/doc "))
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "just a question", BuildPrompt("just a question", nil))

	got := BuildPrompt("What is this about?", &core.PageContent{
		Title:   "Effective Go",
		URL:     "https://go.dev/doc/effective_go",
		Domain:  "go.dev",
		Content: "Go is a new language.",
	})

	for _, want := range []string{
		"You are ArthPage",
		"User Prompt:\nWhat is this about?",
		"Page Title:\nEffective Go",
		"Page URL:\nhttps://go.dev/doc/effective_go",
		"Domain:\ngo.dev",
		"Page Content:\nGo is a new language.",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "&lt;")
}

func TestTruncate(t *testing.T) {
	text := strings.Repeat("word ", 1000)

	got := Truncate(text, 10)
	assert.Less(t, len(got), len(text))
	assert.True(t, strings.HasPrefix(text, got))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, text, Truncate(text, 0))
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantTitle   string
		wantContent []string
		wantErr     string
		wantCalls   int32
	}{
		{
			name: "html page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, core.ArthUserAgent, r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				fmt.Fprint(w, `<html><head><title> Go &amp; You
				</title></head><body><h1>Test Page</h1><p>Hello World</p><script>var x=1</script></body></html>`)
			},
			wantTitle:   "Go & You",
			wantContent: []string{"Test Page", "Hello World"},
			wantCalls:   1,
		},
		{
			name: "plain text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				fmt.Fprint(w, "just text")
			},
			wantContent: []string{"just text"},
			wantCalls:   1,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
			},
			wantContent: []string{"No text found."},
			wantCalls:   1,
		},
		{
			name: "404 is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr:   "HTTP 404",
			wantCalls: 1,
		},
		{
			name: "500 is retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:   "HTTP 500",
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			defer server.Close()

			f := NewFetcher(WithRetry(fastRetry()))
			got, err := f.Fetch(context.Background(), server.URL+"/doc")

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, server.URL+"/doc", got.URL)
			assert.Equal(t, "127.0.0.1", got.Domain)
			for _, want := range tt.wantContent {
				assert.Contains(t, got.Content, want)
			}
			assert.NotContains(t, got.Content, "var x=1")
		})
	}
}

func TestFetcher_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "second time lucky")
	}))
	defer server.Close()

	got, err := NewFetcher(WithRetry(fastRetry())).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", got.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_InvalidURL(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestSplitLink(t *testing.T) {
	tests := []struct {
		in       string
		link     string
		question string
	}{
		{"what is Go?", "", "what is Go?"},
		{"https://go.dev/doc", "https://go.dev/doc", DefaultQuestion},
		{"explain https://go.dev/doc/effective_go, briefly", "https://go.dev/doc/effective_go", "explain briefly"},
		{"tl;dr https://example.com/a?b=1.", "https://example.com/a?b=1", "tl;dr"},
		{"  ", "", ""},
	}

	for _, tt := range tests {
		link, question := SplitLink(tt.in)
		assert.Equal(t, tt.link, link, tt.in)
		assert.Equal(t, tt.question, question, tt.in)
	}
}
