package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ndk123-web/arthpage/internal/core"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type Gemini struct {
	baseProvider
}

func NewGemini(apiKey, model string, opts ...Option) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(core.ProviderGemini, geminiBaseURL, apiKey, model, opts...),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Chat(ctx context.Context, prompt string) (string, error) {
	if err := g.precheck(prompt, true); err != nil {
		return "", err
	}

	payload := map[string]any{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	headers := map[string]string{
		"X-goog-api-key": g.apiKey,
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(g.model))
	resp, err := g.doRequest(ctx, http.MethodPost, path, payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := g.readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Candidates []struct {
			Content *geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", g.malformed(fmt.Errorf("decode: %w", err))
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", g.malformed(errors.New("response has no candidates[0].content.parts[0]"))
	}
	return g.nonEmpty(result.Candidates[0].Content.Parts[0].Text)
}
