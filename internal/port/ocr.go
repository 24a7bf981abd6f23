package port

import "context"

// OCRResult is the recognized text of a rasterized document.
type OCRResult struct {
	Text  string
	Pages int
}

// OCREngine recognizes text in a PDF whose text layer is empty.
type OCREngine interface {
	// Available returns domain.ErrOCRUnavailable when the engine cannot run.
	Available() error
	RecognizePDF(ctx context.Context, path string) (*OCRResult, error)
}
