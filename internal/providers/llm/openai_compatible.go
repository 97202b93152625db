package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndk123-web/arthpage/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	requireKey   bool
	extraHeaders map[string]string
	extraBody    map[string]any
}

type OpenAICompatibleConfig struct {
	Kind         core.ProviderKind
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	RequireKey   bool
	ExtraHeaders map[string]string
	ExtraBody    map[string]any
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig, opts ...Option) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.Kind, cfg.BaseURL, cfg.APIKey, cfg.Model, opts...),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		requireKey:   cfg.RequireKey,
		extraHeaders: cfg.ExtraHeaders,
		extraBody:    cfg.ExtraBody,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAICompatible) Chat(ctx context.Context, prompt string) (string, error) {
	if err := o.precheck(prompt, o.requireKey); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model":    o.model,
		"messages": []chatMessage{{Role: core.RoleUser, Content: prompt}},
	}
	for k, v := range o.extraBody {
		payload[k] = v
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return o.parseOpenAIResponse(resp)
}

func (o *OpenAICompatible) parseOpenAIResponse(resp *http.Response) (string, error) {
	data, err := o.readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message *chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", o.malformed(fmt.Errorf("decode: %w", err))
	}
	if len(result.Choices) == 0 || result.Choices[0].Message == nil {
		return "", o.malformed(errors.New("response has no choices[0].message"))
	}
	return o.nonEmpty(result.Choices[0].Message.Content)
}
