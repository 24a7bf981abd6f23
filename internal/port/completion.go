package port

import "context"

// CompletionRequest carries one system/user exchange to a language model.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completion is a provider's reply reduced to a single text string.
type Completion struct {
	Text         string
	Model        string
	FinishReason string
	InputTokens  int64
	OutputTokens int64
}

// CompletionProvider abstracts a chat-completion backend.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
