// Package ocr rasterizes PDF pages and recognizes their text. It backs the
// extractor's fallback for documents without a usable text layer.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/ocr/azure"
	"docextract/internal/port"
)

const (
	EngineTesseract = "tesseract"
	EngineAzure     = "azure"
	EngineNone      = "none"
)

// Engine implements port.OCREngine: pdftoppm renders pages, a Recognizer reads them.
type Engine struct {
	cfg        config.OCRConfig
	recognizer Recognizer
	runner     Runner
	lookPath   func(string) (string, error)
}

// NewEngine creates an engine around rec. A nil rec yields an engine that
// always reports domain.ErrOCRUnavailable.
func NewEngine(cfg config.OCRConfig, rec Recognizer) *Engine {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Engine{cfg: cfg, recognizer: rec, runner: execRunner{}, lookPath: exec.LookPath}
}

// NewFromConfig picks the recognizer named by cfg.Engine.
func NewFromConfig(cfg config.OCRConfig) (*Engine, error) {
	switch cfg.Engine {
	case EngineTesseract, "":
		return NewEngine(cfg, NewTesseract(cfg.Tesseract, cfg.Lang, cfg.TessdataDir)), nil
	case EngineAzure:
		return NewEngine(cfg, azure.NewRecognizer(cfg.AzureEndpoint, cfg.AzureKey, cfg.Lang)), nil
	case EngineNone:
		return NewEngine(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}

// WithRunner replaces the command runner and PATH lookup (for testing).
func (e *Engine) WithRunner(r Runner, lookPath func(string) (string, error)) *Engine {
	e.runner = r
	e.lookPath = lookPath
	return e
}

// Available reports domain.ErrOCRUnavailable when rasterization or
// recognition cannot run in this environment.
func (e *Engine) Available() error {
	if e.recognizer == nil {
		return fmt.Errorf("%w: disabled by configuration", domain.ErrOCRUnavailable)
	}
	if _, err := e.lookPath(e.cfg.Pdftoppm); err != nil {
		return fmt.Errorf("%w: %s not found: %v", domain.ErrOCRUnavailable, e.cfg.Pdftoppm, err)
	}
	if err := e.recognizer.Available(); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrOCRUnavailable, e.recognizer.Name(), err)
	}
	return nil
}

// RecognizePDF renders every page and concatenates the recognized text in
// page order. Pages that fail recognition are skipped; the call fails only
// when no page could be read.
func (e *Engine) RecognizePDF(ctx context.Context, path string) (*port.OCRResult, error) {
	if err := e.Available(); err != nil {
		return nil, err
	}
	if e.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "docextract-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating ocr work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("ocr.Engine: failed to remove work dir %s: %v", dir, err)
		}
	}()

	pages, err := e.rasterize(ctx, path, dir)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	var failures []error
	for i, img := range pages {
		if e.cfg.Enhance {
			if enhanced, err := enhance(img); err != nil {
				log.Printf("ocr.Engine: enhancing page %d: %v", i+1, err)
			} else {
				img = enhanced
			}
		}
		text, err := e.recognizer.Recognize(ctx, img)
		if err != nil {
			log.Printf("ocr.Engine: %s failed on page %d: %v", e.recognizer.Name(), i+1, err)
			failures = append(failures, err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		b.WriteString(text)
	}
	if len(failures) == len(pages) {
		return nil, fmt.Errorf("ocr failed on all %d pages: %w", len(pages), errors.Join(failures...))
	}

	return &port.OCRResult{Text: b.String(), Pages: len(pages)}, nil
}
