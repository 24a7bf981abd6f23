package domain

import "strings"

// DocumentType selects the prompt templates and field schema used for extraction.
type DocumentType string

const (
	DocumentTypeInvoice   DocumentType = "invoice"
	DocumentTypeSpec      DocumentType = "spec"
	DocumentTypeQuote     DocumentType = "quote"
	DocumentTypeSubmittal DocumentType = "submittal"
)

// SupportedDocumentTypes lists the document types with dedicated templates, in display order.
func SupportedDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeInvoice,
		DocumentTypeSpec,
		DocumentTypeQuote,
		DocumentTypeSubmittal,
	}
}

// ParseDocumentType maps free-form input to a DocumentType.
// Empty or unknown values resolve to DocumentTypeInvoice.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case DocumentTypeSpec:
		return DocumentTypeSpec
	case DocumentTypeQuote:
		return DocumentTypeQuote
	case DocumentTypeSubmittal:
		return DocumentTypeSubmittal
	default:
		return DocumentTypeInvoice
	}
}

// IsKnown reports whether t has dedicated templates.
func (t DocumentType) IsKnown() bool {
	for _, known := range SupportedDocumentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// TextSource records which path produced the extracted text.
type TextSource string

const (
	TextSourceTextLayer TextSource = "text_layer"
	TextSourceOCR       TextSource = "ocr"
	TextSourceNone      TextSource = "none"
)

// ProviderStatus is the per-provider outcome reported alongside results.
type ProviderStatus string

const (
	ProviderStatusOK          ProviderStatus = "ok"
	ProviderStatusError       ProviderStatus = "provider_error"
	ProviderStatusParseFailed ProviderStatus = "parse_error"
	ProviderStatusSkipped     ProviderStatus = "skipped"
)

// PDFContentType is the only upload type the pipeline accepts.
const PDFContentType = "application/pdf"
