package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docextract/docs"
	"docextract/internal/handler"
	"docextract/internal/middleware"
)

// Options carries the HTTP-level settings the router applies.
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	extractH *handler.ExtractHandler,
	legacyH *handler.LegacyHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger("/healthz", "/readyz"))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	upload := middleware.BodyLimit(opts.MaxUploadBytes)

	v1 := r.Group("/api/v1")
	v1.POST("/extract", upload, extractH.Extract)
	v1.POST("/extract/export", upload, extractH.Export)
	v1.POST("/extract/object", extractH.ExtractObject)
	v1.GET("/document-types", extractH.DocumentTypes)
	v1.GET("/document-types/:type/schema", extractH.Schema)

	// Original frontend endpoint
	r.POST("/api/process-pdf", upload, legacyH.ProcessPDF)

	return r
}
