package domain

import "time"

// PromptPair is the system instruction and user message sent to every provider.
type PromptPair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// ProviderResponse is the raw outcome of one provider call.
// Exactly one of RawText or Err is meaningful.
type ProviderResponse struct {
	ProviderID   string
	Model        string
	RawText      string
	Err          error
	Duration     time.Duration
	InputTokens  int64
	OutputTokens int64
	Attempts     int
}

// Usage reports token counts returned by a provider.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// ProviderDiagnostic describes how a single provider fared.
type ProviderDiagnostic struct {
	Status     ProviderStatus `json:"status"`
	Model      string         `json:"model,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Attempts   int            `json:"attempts,omitempty"`
	Usage      *Usage         `json:"usage,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// ExtractionResult is the pipeline output. Results holds one entry per
// configured provider; a nil map marks a provider that failed.
type ExtractionResult struct {
	DocumentType  DocumentType                  `json:"document_type"`
	Results       map[string]map[string]any     `json:"results"`
	Diagnostics   map[string]ProviderDiagnostic `json:"diagnostics"`
	Providers     []string                      `json:"providers"`
	TextSource    TextSource                    `json:"text_source"`
	Pages         int                           `json:"pages"`
	TextLength    int                           `json:"text_length"`
	TokenEstimate int                           `json:"token_estimate"`
	DurationMS    int64                         `json:"duration_ms"`
}

// SucceededCount returns how many providers produced a usable object.
func (r *ExtractionResult) SucceededCount() int {
	n := 0
	for _, obj := range r.Results {
		if obj != nil {
			n++
		}
	}
	return n
}
