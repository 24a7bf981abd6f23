// Package bootstrap wires configuration into a ready extraction service.
// Both the HTTP server and the CLI build through it.
package bootstrap

import (
	"fmt"
	"log"

	"docextract/internal/config"
	"docextract/internal/extractor"
	"docextract/internal/ocr"
	"docextract/internal/port"
	"docextract/internal/provider"
	"docextract/internal/schema"
	"docextract/internal/service"
	s3storage "docextract/internal/storage/s3"

	// Provider adapters register themselves with the provider factory.
	_ "docextract/internal/provider/anthropic"
	_ "docextract/internal/provider/gemini"
	_ "docextract/internal/provider/openai"
)

// App holds the assembled pipeline components.
type App struct {
	Config     *config.Config
	OCR        *ocr.Engine
	Extractor  *extractor.Extractor
	Dispatcher *provider.Dispatcher
	Service    service.ExtractionService
}

// Build creates every pipeline component from cfg.
func Build(cfg *config.Config) (*App, error) {
	engine, err := ocr.NewFromConfig(cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("initializing ocr: %w", err)
	}
	if err := engine.Available(); err != nil {
		log.Printf("bootstrap.Build: scanned documents will yield empty text: %v", err)
	}
	ext := extractor.New(engine)

	dispatcher, err := provider.NewDispatcherFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing providers: %w", err)
	}
	for i := range cfg.Providers {
		if cfg.Providers[i].ResolvedAPIKey() == "" {
			log.Printf("bootstrap.Build: provider %s has no API key; its calls will fail", cfg.Providers[i].ID)
		}
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("compiling schemas: %w", err)
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("initializing S3 client: %w", err)
		}
	}

	log.Printf("bootstrap.Build: providers %v, ocr engine %q", dispatcher.ProviderIDs(), cfg.OCR.Engine)

	return &App{
		Config:     cfg,
		OCR:        engine,
		Extractor:  ext,
		Dispatcher: dispatcher,
		Service:    service.NewExtractionService(ext, dispatcher, validator, storage, cfg),
	}, nil
}
