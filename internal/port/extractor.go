package port

import (
	"context"

	"docextract/internal/domain"
)

// TextResult is the plain text pulled from a PDF.
type TextResult struct {
	Text   string
	Source domain.TextSource
	Pages  int
}

// TextExtractor converts a staged PDF into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*TextResult, error)
}
