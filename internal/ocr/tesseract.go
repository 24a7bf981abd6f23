package ocr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Recognizer turns one page image into text.
type Recognizer interface {
	Name() string
	Available() error
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Tesseract recognizes page images with the tesseract CLI.
type Tesseract struct {
	bin         string
	lang        string
	tessdataDir string
	runner      Runner
	lookPath    func(string) (string, error)
}

// NewTesseract creates a tesseract recognizer. An empty bin means "tesseract"
// on PATH and an empty lang means "eng".
func NewTesseract(bin, lang, tessdataDir string) *Tesseract {
	if bin == "" {
		bin = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{bin: bin, lang: lang, tessdataDir: tessdataDir, runner: execRunner{}, lookPath: exec.LookPath}
}

// WithRunner replaces the command runner (for testing).
func (t *Tesseract) WithRunner(r Runner, lookPath func(string) (string, error)) *Tesseract {
	t.runner = r
	t.lookPath = lookPath
	return t
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Available() error {
	if _, err := t.lookPath(t.bin); err != nil {
		return fmt.Errorf("%s not found: %w", t.bin, err)
	}
	return nil
}

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	// tesseract <img> stdout -l <lang> [--tessdata-dir <dir>]
	args := []string{imagePath, "stdout", "-l", t.lang}
	if t.tessdataDir != "" {
		args = append(args, "--tessdata-dir", t.tessdataDir)
	}
	out, errb, err := t.runner.Run(ctx, t.bin, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
