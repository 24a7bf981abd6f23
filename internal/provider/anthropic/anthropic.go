// Package anthropic adapts the Anthropic Messages API to port.CompletionProvider.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docextract/internal/config"
	"docextract/internal/port"
	"docextract/internal/provider"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-3-5-sonnet-20240620"
	providerName = "anthropic"
)

func init() {
	provider.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		return NewProvider(cfg), nil
	})
}

// Provider implements port.CompletionProvider using the Anthropic Messages API.
type Provider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewProvider creates an Anthropic provider from a provider config.
// A configured base URL replaces the default messages endpoint.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	}
	return newProvider(cfg, endpoint)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API endpoint (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Provider {
	return newProvider(cfg, endpoint)
}

func newProvider(cfg *config.ProviderConfig, endpoint string) *Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	// Deadlines come from the caller's context.
	return &Provider{
		apiKey:   cfg.ResolvedAPIKey(),
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

func (p *Provider) Complete(ctx context.Context, in port.CompletionRequest) (*port.Completion, error) {
	reqBody := map[string]interface{}{
		"model":       p.model,
		"max_tokens":  in.MaxTokens,
		"temperature": in.Temperature,
		"system":      in.System,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": in.User,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.StatusError(providerName, resp, respBody)
	}

	return parseResponse(respBody, p.model)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// parseResponse joins the text blocks of the content list into one string.
func parseResponse(body []byte, model string) (*port.Completion, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, provider.ErrEmptyCompletion
	}

	if resp.Model != "" {
		model = resp.Model
	}
	return &port.Completion{
		Text:         text.String(),
		Model:        model,
		FinishReason: resp.StopReason,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
