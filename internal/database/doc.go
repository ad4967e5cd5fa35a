// Package database provides the data access layer for the application.
//
// The layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── runs/            # Export run history
//
// Each sub-package provides a Repository type with domain-specific
// operations backed by the shared gorm connection:
//
//	db, err := database.NewDatabase("./weread-exporter.db")
//	repo := runs.NewRepository(db.DB)
//	history, err := repo.RecentRuns(20)
package database
