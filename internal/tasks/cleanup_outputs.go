package tasks

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupOutputsTask removes export artifacts older than the configured
// retention period. Each run writes into its own directory under the
// output dir; the whole run directory is removed once it ages out.
type CleanupOutputsTask struct {
	OutputDir      string `json:"output_dir"`
	RetentionHours int    `json:"retention_hours"`
}

// Config returns the queue configuration for output cleanup tasks.
func (t CleanupOutputsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_outputs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOutputsProcessor creates a processor function for CleanupOutputsTask.
func CleanupOutputsProcessor() backlite.QueueProcessor[CleanupOutputsTask] {
	return func(ctx context.Context, task CleanupOutputsTask) error {
		retentionHours := task.RetentionHours
		if retentionHours <= 0 {
			retentionHours = 24
		}
		cutoff := time.Now().Add(-time.Duration(retentionHours) * time.Hour)

		removed, err := removeOlderThan(task.OutputDir, cutoff)
		if err != nil {
			return err
		}

		log.Printf("[TASK] Cleaned up %d output entries older than %d hours", removed, retentionHours)
		return nil
	}
}

// NewCleanupOutputsQueue creates a backlite queue for output cleanup tasks.
func NewCleanupOutputsQueue() backlite.Queue {
	return backlite.NewQueue(CleanupOutputsProcessor())
}

// removeOlderThan deletes direct children of dir whose modification time
// predates cutoff. A missing output dir is not an error; there is simply
// nothing to clean.
func removeOlderThan(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Printf("[TASK] Failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}
