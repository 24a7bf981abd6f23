// Package azure recognizes page images with the Azure Computer Vision OCR API.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

var languages = map[string]computervision.OcrLanguages{
	"en": computervision.OcrLanguagesEn, "eng": computervision.OcrLanguagesEn,
	"de": computervision.OcrLanguagesDe, "deu": computervision.OcrLanguagesDe,
	"fr": computervision.OcrLanguagesFr, "fra": computervision.OcrLanguagesFr,
	"es": computervision.OcrLanguagesEs, "spa": computervision.OcrLanguagesEs,
	"it": computervision.OcrLanguagesIt, "ita": computervision.OcrLanguagesIt,
	"pt": computervision.OcrLanguagesPt, "por": computervision.OcrLanguagesPt,
	"nl": computervision.OcrLanguagesNl, "nld": computervision.OcrLanguagesNl,
}

// Recognizer implements ocr.Recognizer against a Computer Vision resource.
type Recognizer struct {
	client   computervision.BaseClient
	endpoint string
	apiKey   string
	language computervision.OcrLanguages
}

// NewRecognizer creates a recognizer. Unrecognized language codes fall back
// to service-side detection.
func NewRecognizer(endpoint, apiKey, lang string) *Recognizer {
	client := computervision.New(strings.TrimRight(endpoint, "/"))
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)

	language, ok := languages[strings.ToLower(lang)]
	if !ok {
		language = computervision.OcrLanguagesUnk
	}
	return &Recognizer{client: client, endpoint: endpoint, apiKey: apiKey, language: language}
}

func (r *Recognizer) Name() string { return "azure" }

func (r *Recognizer) Available() error {
	if r.endpoint == "" || r.apiKey == "" {
		return errors.New("azure endpoint and key must be configured")
	}
	return nil
}

// Recognize sends one image and joins the recognized words line by line.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("opening page image: %w", err)
	}
	defer f.Close()

	result, err := r.client.RecognizePrintedTextInStream(ctx, true, io.NopCloser(f), r.language)
	if err != nil {
		return "", fmt.Errorf("azure ocr: %w", err)
	}
	return resultText(result), nil
}

func resultText(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var b strings.Builder
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, w := range *line.Words {
				if w.Text != nil {
					words = append(words, *w.Text)
				}
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
	}
	return b.String()
}
