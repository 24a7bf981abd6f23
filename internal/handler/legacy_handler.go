package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docextract/internal/service"
)

// LegacyHandler serves the original single-endpoint API used by the web frontend.
type LegacyHandler struct {
	extractionService service.ExtractionService
}

// NewLegacyHandler creates a new LegacyHandler.
func NewLegacyHandler(extractionService service.ExtractionService) *LegacyHandler {
	return &LegacyHandler{extractionService: extractionService}
}

// ProcessPDF handles POST /api/process-pdf
// @Summary Extract fields (legacy response shape)
// @Description Same pipeline as /api/v1/extract; responds with {success, data, tokens} or {error}.
// @Tags legacy
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Param document_type formData string false "invoice, spec, quote or submittal (default invoice)"
// @Success 200 {object} LegacyResponse "Per-provider results"
// @Failure 400 {object} LegacyErrorResponse "Missing or invalid file"
// @Failure 500 {object} LegacyErrorResponse "Extraction failed"
// @Router /process-pdf [post]
func (h *LegacyHandler) ProcessPDF(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, LegacyErrorResponse{Error: "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, LegacyErrorResponse{Error: "No file provided"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, LegacyErrorResponse{Error: "No file selected"})
		return
	}

	result, err := h.extractionService.Process(c.Request.Context(), service.ExtractInput{
		Reader:       file,
		FileName:     header.Filename,
		Size:         header.Size,
		DocumentType: c.PostForm("document_type"),
	})
	if err != nil {
		status, _, msg := MapDomainError(err)
		if status >= 500 {
			HandleLegacyError(c, status, err)
			return
		}
		c.JSON(status, LegacyErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, LegacyResponse{
		Success: true,
		Data:    result.Results,
		Tokens:  result.TokenEstimate,
	})
}

// HandleLegacyError logs a server-side failure and writes the legacy error body.
func HandleLegacyError(c *gin.Context, status int, err error) {
	requestID, _ := c.Get("request_id")
	logInternal(requestID, err)
	c.JSON(status, LegacyErrorResponse{Error: err.Error()})
}
