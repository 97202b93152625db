package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3:instruct"
)

// Ollama is the local backend. The API key is optional and only sent when set.
type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model string, opts ...Option) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Kind:       core.ProviderOllama,
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraBody: map[string]any{
				"stream": false,
			},
		}, opts...),
	}
}

// Models lists locally pulled models via /api/tags.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := o.doRequest(ctx, http.MethodGet, "/api/tags", nil, o.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()

	data, err := o.readBody(resp)
	if err != nil {
		return nil, err
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, o.malformed(fmt.Errorf("decode: %w", err))
	}

	models := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// PullProgress is one status line of a model pull.
type PullProgress struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error"`
}

// Pull downloads model into the local Ollama and reports each status line to progress.
// A pull can take many minutes, so only ctx bounds it.
func (o *Ollama) Pull(ctx context.Context, model string, progress func(PullProgress)) error {
	resp, err := o.send(ctx, o.streamClient(), http.MethodPost, "/api/pull", map[string]any{"model": model}, o.authHeaders())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, err := o.readBody(resp)
		return err
	}

	dec := json.NewDecoder(resp.Body)
	for {
		var p PullProgress
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				return o.malformed(fmt.Errorf("decode pull status: %w", err))
			}
			return core.NewError(core.KindNetworkError, o.kind, fmt.Errorf("read pull status: %w", err))
		}
		if p.Error != "" {
			return fmt.Errorf("pull %s: %s", model, p.Error)
		}
		if progress != nil {
			progress(p)
		}
	}
}

func (o *Ollama) authHeaders() map[string]string {
	headers := map[string]string{}
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}
	return headers
}
