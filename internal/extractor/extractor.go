// Package extractor converts staged PDFs into plain text, falling back to OCR
// when a document has no usable text layer.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// Extractor implements port.TextExtractor.
type Extractor struct {
	ocr  port.OCREngine
	conf *model.Configuration
}

// New creates an Extractor. ocr may be nil, in which case scanned documents
// yield empty text.
func New(ocr port.OCREngine) *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Extractor{ocr: ocr, conf: conf}
}

// Extract reads the text layer of the PDF at path. When that yields nothing
// but whitespace, every page is run through OCR instead. The absence of text
// is not an error; only a structurally unreadable file or a cancelled context
// is.
func (e *Extractor) Extract(ctx context.Context, path string) (*port.TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading staged document: %w", err)
	}

	text, pages, err := textLayer(data)
	if err != nil {
		// ledongthuc rejects some files pdfcpu can still parse; those go straight to OCR.
		count, countErr := api.PageCount(bytes.NewReader(data), e.conf)
		if countErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
		}
		log.Printf("extractor.Extractor.Extract: text layer unavailable (%v), %d pages per pdfcpu", err, count)
		pages = count
		text = ""
	}

	if strings.TrimSpace(text) != "" {
		return &port.TextResult{Text: text, Source: domain.TextSourceTextLayer, Pages: pages}, nil
	}

	res := &port.TextResult{Text: text, Source: domain.TextSourceNone, Pages: pages}
	if e.ocr == nil {
		return res, nil
	}
	if err := e.ocr.Available(); err != nil {
		log.Printf("extractor.Extractor.Extract: no text layer and OCR unavailable: %v", err)
		return res, nil
	}

	ocrRes, err := e.ocr.RecognizePDF(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("extractor.Extractor.Extract: OCR failed: %v", err)
		return res, nil
	}
	if strings.TrimSpace(ocrRes.Text) == "" {
		log.Printf("extractor.Extractor.Extract: OCR found no text in %d pages", ocrRes.Pages)
		return res, nil
	}

	if ocrRes.Pages > pages {
		pages = ocrRes.Pages
	}
	return &port.TextResult{Text: ocrRes.Text, Source: domain.TextSourceOCR, Pages: pages}, nil
}

// textLayer concatenates the plain text of every page in order. Pages that
// fail to decode contribute nothing.
func textLayer(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	pages = r.NumPage()
	if pages == 0 {
		return "", 0, errors.New("document has no pages")
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		b.WriteString(pageText(r, i))
	}
	return b.String(), pages, nil
}

func pageText(r *pdf.Reader, i int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("extractor.pageText: page %d: %v", i, rec)
			text = ""
		}
	}()

	page := r.Page(i)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		log.Printf("extractor.pageText: page %d: %v", i, err)
		return ""
	}
	return text
}
