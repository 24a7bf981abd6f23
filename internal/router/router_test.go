package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
	"docextract/internal/handler"
	"docextract/internal/router"
	"docextract/internal/service"
	"docextract/mocks"
)

func setup(svc *mocks.MockExtractionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.Setup(
		handler.NewExtractHandler(svc),
		handler.NewLegacyHandler(svc),
		handler.NewHealthHandler(nil),
		router.Options{AllowedOrigins: []string{"*"}, MaxUploadBytes: 1 << 20},
	)
}

func TestRoutes(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	svc.On("DocumentTypes").Return([]service.DocumentTypeInfo{{Type: domain.DocumentTypeInvoice}})
	svc.On("Schema", "spec").Return(domain.DocumentTypeSpec, map[string]any{"type": "object"})
	r := setup(svc)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/api/v1/document-types", http.StatusOK},
		{http.MethodGet, "/api/v1/document-types/spec/schema", http.StatusOK},
		{http.MethodPost, "/api/v1/extract", http.StatusBadRequest},
		{http.MethodPost, "/api/process-pdf", http.StatusBadRequest},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestPreflight(t *testing.T) {
	r := setup(new(mocks.MockExtractionService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/process-pdf", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
