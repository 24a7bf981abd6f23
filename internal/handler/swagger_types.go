package handler

import (
	"docextract/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ExtractObjectRequest represents the stored-object extraction request body.
type ExtractObjectRequest struct {
	Key          string `json:"key" binding:"required" example:"incoming/acme-1042.pdf"`
	DocumentType string `json:"document_type" example:"invoice"`
}

// --- Response Types ---

// SchemaResponse carries the JSON Schema for one document type.
type SchemaResponse struct {
	DocumentType domain.DocumentType `json:"document_type" example:"invoice"`
	Schema       map[string]any      `json:"schema"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Errors map[string]string `json:"errors,omitempty"`
}

// LegacyResponse is the original /api/process-pdf success body. Data maps
// provider ids to the parsed object, or null when that provider failed.
type LegacyResponse struct {
	Success bool                      `json:"success" example:"true"`
	Data    map[string]map[string]any `json:"data"`
	Tokens  int                       `json:"tokens" example:"1830"`
}

// LegacyErrorResponse is the original /api/process-pdf error body.
type LegacyErrorResponse struct {
	Error string `json:"error" example:"No file provided"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
