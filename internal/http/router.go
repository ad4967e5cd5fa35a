package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	extractController := NewExtractController(cfg.Extractor, cfg.RunsRepo, cfg.OutputDir)
	downloadController := NewDownloadController(cfg.OutputDir)

	router.GET("/health", healthController.Status)
	router.POST("/extract", extractController.Extract)
	router.GET("/download", downloadController.Download)

	if cfg.RunsRepo != nil {
		runsController := NewRunsController(cfg.RunsRepo)
		router.GET("/runs", runsController.List)
	}

	if cfg.Metrics != nil {
		handler := promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})
		router.GET("/metrics", gin.WrapH(handler))
	}

	return router
}
