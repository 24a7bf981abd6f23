// Package openai adapts OpenAI-compatible chat completion endpoints (OpenAI,
// GitHub Models, DeepSeek) to port.CompletionProvider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"docextract/internal/config"
	"docextract/internal/port"
	"docextract/internal/provider"
)

const (
	defaultModel         = "gpt-4o"
	defaultDeepSeekModel = "deepseek/DeepSeek-V3-0324"
	gitHubModelsBaseURL  = "https://models.github.ai/inference"
)

func init() {
	provider.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		return NewProvider(cfg, defaultModel, ""), nil
	})
	// DeepSeek is served through the OpenAI-compatible GitHub Models endpoint.
	provider.RegisterProvider("deepseek", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		return NewProvider(cfg, defaultDeepSeekModel, gitHubModelsBaseURL), nil
	})
}

// Provider implements port.CompletionProvider using the OpenAI chat completions API.
type Provider struct {
	name   string
	model  string
	client openai.Client
}

// NewProvider creates a chat-completions provider. cfg.Model and cfg.BaseURL
// override the given defaults; an empty base URL means api.openai.com.
func NewProvider(cfg *config.ProviderConfig, fallbackModel, fallbackBaseURL string) *Provider {
	model := cfg.Model
	if model == "" {
		model = fallbackModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fallbackBaseURL
	}

	// Retries are owned by the dispatcher; deadlines come from the context.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.ResolvedAPIKey()),
		option.WithHTTPClient(&http.Client{}),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	name := cfg.ID
	if name == "" {
		name = cfg.Kind
	}
	return &Provider{
		name:   name,
		model:  model,
		client: openai.NewClient(opts...),
	}
}

func (p *Provider) Complete(ctx context.Context, in port.CompletionRequest) (*port.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(in.System),
			openai.UserMessage(in.User),
		},
		Temperature: openai.Float(in.Temperature),
	}
	if in.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(in.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, p.mapError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, provider.ErrEmptyCompletion
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &port.Completion{
		Text:         resp.Choices[0].Message.Content,
		Model:        model,
		FinishReason: string(resp.Choices[0].FinishReason),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (p *Provider) mapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("calling %s API: %w", p.name, err)
	}
	baseErr := &provider.APIError{Provider: p.name, StatusCode: apiErr.StatusCode, Body: apiErr.Message}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		retryAfter := 0
		if apiErr.Response != nil {
			retryAfter = provider.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
		}
		return provider.NewRateLimitError(p.name, baseErr, retryAfter)
	}
	return baseErr
}
