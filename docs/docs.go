// Package docs is generated by swag init; regenerate with
// swag init -g cmd/server/main.go -o docs --parseInternal
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/document-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "List supported document types",
                "responses": {
                    "200": {
                        "description": "Document types",
                        "schema": {"$ref": "#/definitions/handler.Response"}
                    }
                }
            }
        },
        "/document-types/{type}/schema": {
            "get": {
                "description": "Unknown types resolve to invoice.",
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Get the JSON Schema for a document type",
                "parameters": [
                    {"type": "string", "description": "Document type", "name": "type", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "JSON Schema",
                        "schema": {"$ref": "#/definitions/handler.Response"}
                    }
                }
            }
        },
        "/extract": {
            "post": {
                "description": "Upload a PDF and extract its fields with every configured provider. A provider that fails yields null.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Extract fields from a PDF",
                "parameters": [
                    {"type": "file", "description": "PDF document", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "invoice, spec, quote or submittal (default invoice)", "name": "document_type", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Per-provider results", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing, empty or non-PDF upload", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "Unreadable PDF", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Extraction failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/extract/export": {
            "post": {
                "description": "Runs the extraction and returns the results side by side, one column per provider.",
                "consumes": ["multipart/form-data"],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["extraction"],
                "summary": "Extract and download as a spreadsheet",
                "parameters": [
                    {"type": "file", "description": "PDF document", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "invoice, spec, quote or submittal (default invoice)", "name": "document_type", "in": "formData"},
                    {"type": "string", "description": "csv (default) or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Spreadsheet", "schema": {"type": "file"}},
                    "400": {"description": "Invalid upload or format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/extract/object": {
            "post": {
                "description": "Fetches a PDF from the configured S3 bucket by key and extracts its fields.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Extract fields from a stored PDF",
                "parameters": [
                    {"description": "Object key and document type", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ExtractObjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-provider results", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Object not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.ExtractObjectRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "document_type": {"type": "string", "example": "invoice"},
                "key": {"type": "string", "example": "incoming/acme-1042.pdf"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "docextract API",
	Description:      "Extracts structured fields from invoice-like PDFs with several language model providers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
