package domain

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument       = errors.New("document is empty")
	ErrUnreadableDocument  = errors.New("document could not be read as a PDF")
	ErrNoProviders         = errors.New("no completion providers configured")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
	ErrObjectNotFound      = errors.New("object not found in storage")
	ErrPipelineFailure     = errors.New("extraction pipeline failed")
	ErrOCRUnavailable      = errors.New("ocr engine unavailable")
)
