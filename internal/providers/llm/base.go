package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
)

const (
	defaultClientTimeout = 120 * time.Second
	maxErrorBodyLen      = 512
)

type baseProvider struct {
	kind    core.ProviderKind
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// Option customizes an adapter at construction.
type Option func(*baseProvider)

// WithBaseURL points the adapter at a different host (gateway, test server).
func WithBaseURL(url string) Option {
	return func(b *baseProvider) {
		if url != "" {
			b.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(b *baseProvider) {
		if client != nil {
			b.client = client
		}
	}
}

func newBaseProvider(kind core.ProviderKind, baseURL, apiKey, model string, opts ...Option) baseProvider {
	b := baseProvider{
		kind: kind,
		client: &http.Client{
			Timeout: defaultClientTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// precheck rejects calls that must never reach the network.
func (b *baseProvider) precheck(prompt string, needsKey bool) error {
	if strings.TrimSpace(prompt) == "" {
		return core.NewError(core.KindEmptyPrompt, b.kind, errors.New("prompt cannot be empty"))
	}
	if needsKey && b.apiKey == "" {
		return core.NewError(core.KindMissingCredential, b.kind, errors.New("api key is not set"))
	}
	return nil
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	return b.send(ctx, b.client, method, path, body, headers)
}

// streamClient is the adapter's client without the whole-request timeout, for
// responses that are read for as long as ctx allows.
func (b *baseProvider) streamClient() *http.Client {
	c := *b.client
	c.Timeout = 0
	return &c
}

func (b *baseProvider) send(ctx context.Context, client *http.Client, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, core.NewError(core.KindNetworkError, b.kind, fmt.Errorf("create request: %w", err))
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, core.NewError(core.KindNetworkError, b.kind, fmt.Errorf("request: %w", err))
	}
	return resp, nil
}

// readBody drains resp and maps non-2xx statuses onto HttpError.
func (b *baseProvider) readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewError(core.KindNetworkError, b.kind, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, core.NewHTTPError(b.kind, resp.StatusCode, truncate(string(data), maxErrorBodyLen))
	}
	return data, nil
}

func (b *baseProvider) malformed(err error) error {
	return core.NewError(core.KindMalformedResponse, b.kind, err)
}

// nonEmpty turns a blank reply into EmptyUpstreamResponse.
func (b *baseProvider) nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", core.NewError(core.KindEmptyUpstreamResponse, b.kind, nil)
	}
	return text, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
