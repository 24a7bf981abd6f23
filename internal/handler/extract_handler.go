package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docextract/internal/export"
	"docextract/internal/service"
)

// ExtractHandler handles document extraction endpoints.
type ExtractHandler struct {
	extractionService service.ExtractionService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractionService service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{extractionService: extractionService}
}

// Extract handles POST /api/v1/extract
// @Summary Extract fields from a PDF
// @Description Upload a PDF and extract its fields with every configured provider. A provider that fails yields null.
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Param document_type formData string false "invoice, spec, quote or submittal (default invoice)"
// @Success 200 {object} Response{data=domain.ExtractionResult} "Per-provider results"
// @Failure 400 {object} ErrorResponseBody "Missing, empty or non-PDF upload"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Unreadable PDF"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	input, cleanup, ok := uploadInput(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.extractionService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Export handles POST /api/v1/extract/export
// @Summary Extract and download as a spreadsheet
// @Description Runs the extraction and returns the results side by side, one column per provider.
// @Tags extraction
// @Accept multipart/form-data
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param file formData file true "PDF document"
// @Param document_type formData string false "invoice, spec, quote or submittal (default invoice)"
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file "Spreadsheet"
// @Failure 400 {object} ErrorResponseBody "Invalid upload or format"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Unreadable PDF"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Router /extract/export [post]
func (h *ExtractHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	input, cleanup, ok := uploadInput(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.extractionService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, result, format); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(input.FileName, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ExtractObject handles POST /api/v1/extract/object
// @Summary Extract fields from a stored PDF
// @Description Fetches a PDF from the configured S3 bucket by key and extracts its fields.
// @Tags extraction
// @Accept json
// @Produce json
// @Param body body ExtractObjectRequest true "Object key and document type"
// @Success 200 {object} Response{data=domain.ExtractionResult} "Per-provider results"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Object not found"
// @Failure 503 {object} ErrorResponseBody "Storage not configured"
// @Router /extract/object [post]
func (h *ExtractHandler) ExtractObject(c *gin.Context) {
	var req ExtractObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "key is required")
		return
	}

	result, err := h.extractionService.ProcessObject(c.Request.Context(), req.Key, req.DocumentType)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// DocumentTypes handles GET /api/v1/document-types
// @Summary List supported document types
// @Tags extraction
// @Produce json
// @Success 200 {object} Response{data=[]service.DocumentTypeInfo} "Document types"
// @Router /document-types [get]
func (h *ExtractHandler) DocumentTypes(c *gin.Context) {
	RespondOK(c, h.extractionService.DocumentTypes())
}

// Schema handles GET /api/v1/document-types/:type/schema
// @Summary Get the JSON Schema for a document type
// @Description Unknown types resolve to invoice.
// @Tags extraction
// @Produce json
// @Param type path string true "Document type"
// @Success 200 {object} Response{data=SchemaResponse} "JSON Schema"
// @Router /document-types/{type}/schema [get]
func (h *ExtractHandler) Schema(c *gin.Context) {
	docType, schema := h.extractionService.Schema(c.Param("type"))
	RespondOK(c, SchemaResponse{DocumentType: docType, Schema: schema})
}

// uploadInput opens the multipart "file" field. On failure the error response
// has already been written.
func uploadInput(c *gin.Context) (service.ExtractInput, func(), bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
			return service.ExtractInput{}, nil, false
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ExtractInput{}, nil, false
	}

	input := service.ExtractInput{
		Reader:       file,
		FileName:     header.Filename,
		Size:         header.Size,
		DocumentType: c.PostForm("document_type"),
	}
	return input, func() { _ = file.Close() }, true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
