// Package runs provides database operations for export run history.
package runs

import (
	"gorm.io/gorm"

	"github.com/mrlokans/weread-exporter/internal/entities"
)

const defaultRecentLimit = 20

// Repository handles all export run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun persists a finished run record.
func (r *Repository) SaveRun(run *entities.ExportRun) error {
	return r.db.Create(run).Error
}

// RecentRuns returns the most recent runs, newest first. A non-positive
// limit falls back to the default.
func (r *Repository) RecentRuns(limit int) ([]entities.ExportRun, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var runs []entities.ExportRun
	err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// GetRun retrieves a single run by ID.
func (r *Repository) GetRun(id uint) (*entities.ExportRun, error) {
	var run entities.ExportRun
	if err := r.db.First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
