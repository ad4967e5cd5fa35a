package http

import (
	"github.com/mrlokans/weread-exporter/internal/database"
	"github.com/mrlokans/weread-exporter/internal/database/runs"
	"github.com/mrlokans/weread-exporter/internal/export"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Extractor Extractor
	Database  *database.Database
	RunsRepo  *runs.Repository

	// Where export artifacts are written and served from
	OutputDir string

	// Pipeline metrics; nil disables the /metrics endpoint
	Metrics *export.Metrics

	// Application info
	Version string
}
