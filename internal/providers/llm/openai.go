package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/sashabaranov/go-openai"
)

const openAIBaseURL = "https://api.openai.com"

// OpenAI goes through the go-openai client rather than raw requests.
type OpenAI struct {
	baseProvider
	api *openai.Client
}

func NewOpenAI(apiKey, model string, opts ...Option) *OpenAI {
	b := newBaseProvider(core.ProviderOpenAI, openAIBaseURL, apiKey, model, opts...)

	cfg := openai.DefaultConfig(b.apiKey)
	cfg.BaseURL = b.baseURL + "/v1"
	cfg.HTTPClient = b.client

	return &OpenAI{
		baseProvider: b,
		api:          openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAI) Chat(ctx context.Context, prompt string) (string, error) {
	if err := o.precheck(prompt, true); err != nil {
		return "", err
	}

	resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", o.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", o.malformed(errors.New("response has no choices"))
	}
	return o.nonEmpty(resp.Choices[0].Message.Content)
}

func (o *OpenAI) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return core.NewHTTPError(o.kind, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return core.NewHTTPError(o.kind, reqErr.HTTPStatusCode, truncate(fmt.Sprint(reqErr.Err), maxErrorBodyLen))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return o.malformed(err)
	}

	return core.NewError(core.KindNetworkError, o.kind, err)
}
