package entities

import (
	"time"
)

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ExportRun records one export attempt, whether it produced artifacts
// or died on the notebook listing.
type ExportRun struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Status      RunStatus  `gorm:"size:20" json:"status"`
	BookCount   int        `json:"book_count"`
	NoteCount   int        `json:"note_count"`
	FailedBooks int        `json:"failed_books"`
	Truncated   bool       `json:"truncated"`
	ArtifactDir string     `gorm:"size:255" json:"artifact_dir,omitempty"`
	JSONFile    string     `gorm:"size:255" json:"json_file,omitempty"`
	ExcelFile   string     `gorm:"size:255" json:"excel_file,omitempty"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (ExportRun) TableName() string {
	return "export_runs"
}
