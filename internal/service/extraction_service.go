package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/normalizer"
	"docextract/internal/port"
	"docextract/internal/prompt"
	"docextract/internal/schema"
)

const (
	// sniffLen is how much of an upload is inspected for the PDF signature.
	sniffLen = 512
	// rawLogLimit caps how much unparseable provider output is logged.
	rawLogLimit = 500
)

// ExtractInput is the DTO for a single extraction request.
type ExtractInput struct {
	Reader       io.Reader
	FileName     string
	Size         int64 // -1 when unknown
	DocumentType string
}

// DocumentTypeInfo describes one supported document type for discovery.
type DocumentTypeInfo struct {
	Type    domain.DocumentType `json:"type"`
	Subject string              `json:"subject"`
	Fields  []string            `json:"fields"`
}

// ExtractionService defines the extraction pipeline contract.
type ExtractionService interface {
	Process(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error)
	ProcessObject(ctx context.Context, key, documentType string) (*domain.ExtractionResult, error)
	DocumentTypes() []DocumentTypeInfo
	Schema(documentType string) (domain.DocumentType, map[string]any)
}

type extractionService struct {
	extractor  port.TextExtractor
	dispatcher port.CompletionDispatcher
	validator  *schema.Validator
	storage    port.ObjectStorage
	cfg        *config.Config
}

// NewExtractionService creates a new ExtractionService implementation.
// storage may be nil when no bucket is configured; validator may be nil to
// skip structural warnings.
func NewExtractionService(
	extractor port.TextExtractor,
	dispatcher port.CompletionDispatcher,
	validator *schema.Validator,
	storage port.ObjectStorage,
	cfg *config.Config,
) ExtractionService {
	return &extractionService{
		extractor:  extractor,
		dispatcher: dispatcher,
		validator:  validator,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *extractionService) Process(ctx context.Context, input ExtractInput) (result *domain.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extractionService.Process: recovered panic for %q: %v", input.FileName, r)
			result = nil
			err = fmt.Errorf("%w: %v", domain.ErrPipelineFailure, r)
		}
	}()

	start := time.Now()
	docType := domain.ParseDocumentType(input.DocumentType)

	if input.Reader == nil || input.Size == 0 {
		return nil, domain.ErrEmptyDocument
	}
	maxBytes := s.cfg.Server.MaxUploadBytes()
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	staged, err := s.stage(input.Reader, maxBytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(staged); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Printf("extractionService.Process: failed to remove staged file %s: %v", staged, rmErr)
		}
	}()

	log.Printf("extractionService.Process: extracting %s from %q", docType, input.FileName)
	return s.run(ctx, staged, docType, start)
}

func (s *extractionService) ProcessObject(ctx context.Context, key, documentType string) (*domain.ExtractionResult, error) {
	if s.storage == nil || !s.cfg.S3.Enabled() {
		return nil, domain.ErrStorageUnavailable
	}
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, domain.ErrObjectNotFound
	}

	info, err := s.storage.Stat(ctx, s.cfg.S3.Bucket, key)
	if err != nil {
		return nil, fmt.Errorf("looking up object %s: %w", key, err)
	}
	if info.Size > s.cfg.Server.MaxUploadBytes() {
		return nil, domain.ErrFileTooLarge
	}

	data, err := s.storage.Download(ctx, s.cfg.S3.Bucket, key)
	if err != nil {
		return nil, fmt.Errorf("downloading object %s: %w", key, err)
	}

	return s.Process(ctx, ExtractInput{
		Reader:       bytes.NewReader(data),
		FileName:     path.Base(key),
		Size:         int64(len(data)),
		DocumentType: documentType,
	})
}

func (s *extractionService) DocumentTypes() []DocumentTypeInfo {
	defs := schema.All()
	out := make([]DocumentTypeInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, DocumentTypeInfo{Type: d.Type, Subject: d.Subject, Fields: d.FieldNames()})
	}
	return out
}

func (s *extractionService) Schema(documentType string) (domain.DocumentType, map[string]any) {
	def := schema.Lookup(domain.ParseDocumentType(documentType))
	return def.Type, def.JSONSchema()
}

// stage copies an upload to a temp file after checking its signature and size.
func (s *extractionService) stage(r io.Reader, maxBytes int64) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: reading upload: %v", domain.ErrPipelineFailure, err)
	}
	if n == 0 {
		return "", domain.ErrEmptyDocument
	}
	head = head[:n]
	if http.DetectContentType(head) != domain.PDFContentType {
		return "", domain.ErrUnsupportedFileType
	}

	f, err := os.CreateTemp(s.cfg.Extraction.StagingDir, "docextract-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: creating staging file: %v", domain.ErrPipelineFailure, err)
	}
	name := f.Name()
	fail := func(e error) (string, error) {
		f.Close()
		os.Remove(name)
		return "", e
	}

	if _, err := f.Write(head); err != nil {
		return fail(fmt.Errorf("%w: staging upload: %v", domain.ErrPipelineFailure, err))
	}
	copied, err := io.Copy(f, io.LimitReader(r, maxBytes-int64(n)+1))
	if err != nil {
		return fail(fmt.Errorf("%w: staging upload: %v", domain.ErrPipelineFailure, err))
	}
	if int64(n)+copied > maxBytes {
		return fail(domain.ErrFileTooLarge)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("%w: staging upload: %v", domain.ErrPipelineFailure, err)
	}
	return name, nil
}

// run takes a staged PDF through extraction, prompting, dispatch and parsing.
func (s *extractionService) run(ctx context.Context, path string, docType domain.DocumentType, start time.Time) (*domain.ExtractionResult, error) {
	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("extractionService.run: text extraction failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPipelineFailure, err)
	}

	ids := s.dispatcher.ProviderIDs()
	result := &domain.ExtractionResult{
		DocumentType: docType,
		Results:      make(map[string]map[string]any, len(ids)),
		Diagnostics:  make(map[string]domain.ProviderDiagnostic, len(ids)),
		Providers:    ids,
		TextSource:   text.Source,
		Pages:        text.Pages,
		TextLength:   utf8.RuneCountInString(text.Text),
	}
	for _, id := range ids {
		result.Results[id] = nil
	}

	if strings.TrimSpace(text.Text) == "" {
		log.Printf("extractionService.run: no text extracted from %d pages", text.Pages)
		if s.cfg.Extraction.SkipEmptyText {
			for _, id := range ids {
				result.Diagnostics[id] = domain.ProviderDiagnostic{
					Status: domain.ProviderStatusSkipped,
					Error:  "no text extracted from document",
				}
			}
			result.DurationMS = time.Since(start).Milliseconds()
			return result, nil
		}
	}

	pair := prompt.Build(docType, text.Text)
	result.TokenEstimate = EstimateTokens(pair.System) + EstimateTokens(pair.User)

	for _, resp := range s.dispatcher.Dispatch(ctx, pair) {
		obj, diag := s.interpret(docType, resp)
		result.Results[resp.ProviderID] = obj
		result.Diagnostics[resp.ProviderID] = diag
	}

	result.DurationMS = time.Since(start).Milliseconds()
	log.Printf("extractionService.run: %d/%d providers succeeded for %s in %dms",
		result.SucceededCount(), len(ids), docType, result.DurationMS)
	return result, nil
}

// interpret turns one raw provider response into its parsed object and diagnostic.
func (s *extractionService) interpret(docType domain.DocumentType, resp domain.ProviderResponse) (map[string]any, domain.ProviderDiagnostic) {
	diag := domain.ProviderDiagnostic{
		Model:      resp.Model,
		DurationMS: resp.Duration.Milliseconds(),
		Attempts:   resp.Attempts,
	}
	if resp.InputTokens > 0 || resp.OutputTokens > 0 {
		diag.Usage = &domain.Usage{InputTokens: resp.InputTokens, OutputTokens: resp.OutputTokens}
	}

	if resp.Err != nil {
		diag.Status = domain.ProviderStatusError
		diag.Error = resp.Err.Error()
		return nil, diag
	}

	obj, stage, err := normalizer.Salvage(resp.RawText)
	if err != nil {
		log.Printf("extractionService.interpret: unparseable response from %s: %v; raw: %s",
			resp.ProviderID, err, normalizer.Truncate(resp.RawText, rawLogLimit))
		diag.Status = domain.ProviderStatusParseFailed
		diag.Error = err.Error()
		return nil, diag
	}

	diag.Status = domain.ProviderStatusOK
	if stage == normalizer.StageTrimmed {
		diag.Warnings = append(diag.Warnings, "response contained text outside the JSON object")
	}
	if s.validator != nil {
		diag.Warnings = append(diag.Warnings, s.validator.Validate(docType, obj)...)
	}
	return obj, diag
}

// EstimateTokens approximates a token count at four characters per token.
func EstimateTokens(s string) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
