package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ndk123-web/arthpage/internal/core"
)

const (
	claudeBaseURL   = "https://api.anthropic.com"
	claudeVersion   = "2023-06-01"
	claudeMaxTokens = 1024
)

type Claude struct {
	baseProvider
}

func NewClaude(apiKey, model string, opts ...Option) *Claude {
	return &Claude{
		baseProvider: newBaseProvider(core.ProviderClaude, claudeBaseURL, apiKey, model, opts...),
	}
}

func (c *Claude) Chat(ctx context.Context, prompt string) (string, error) {
	if err := c.precheck(prompt, true); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model":      c.model,
		"max_tokens": claudeMaxTokens,
		"messages":   []chatMessage{{Role: core.RoleUser, Content: prompt}},
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": claudeVersion,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/messages", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", c.malformed(fmt.Errorf("decode: %w", err))
	}
	if len(result.Content) == 0 {
		return "", c.malformed(errors.New("response has no content blocks"))
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return c.nonEmpty(text.String())
}
