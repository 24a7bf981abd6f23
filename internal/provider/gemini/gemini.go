// Package gemini adapts Google's generateContent API to port.CompletionProvider.
package gemini

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
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
	providerName = "gemini"
)

func init() {
	provider.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		return NewProvider(cfg), nil
	})
}

// Provider implements port.CompletionProvider using Google's Gemini API.
type Provider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewProvider creates a Gemini provider.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	return newProvider(cfg, "")
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
	if endpoint == "" {
		base := apiBaseURL
		if cfg.BaseURL != "" {
			base = strings.TrimRight(cfg.BaseURL, "/")
		}
		endpoint = fmt.Sprintf("%s/%s:generateContent", base, model)
	}
	return &Provider{
		apiKey:   cfg.ResolvedAPIKey(),
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

func (p *Provider) Complete(ctx context.Context, in port.CompletionRequest) (*port.Completion, error) {
	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": in.System},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": in.User},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     in.Temperature,
			"maxOutputTokens": in.MaxTokens,
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
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
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

// apiResponse models the Gemini generateContent response.
type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

func parseResponse(body []byte, model string) (*port.Completion, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, provider.ErrEmptyCompletion
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return nil, provider.ErrEmptyCompletion
	}

	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}
	return &port.Completion{
		Text:         text.String(),
		Model:        model,
		FinishReason: resp.Candidates[0].FinishReason,
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	}, nil
}
