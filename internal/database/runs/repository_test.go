package runs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/weread-exporter/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_runs_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ExportRun{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SaveRun(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	completed := time.Now()
	run := &entities.ExportRun{
		Status:      entities.RunStatusCompleted,
		BookCount:   3,
		NoteCount:   42,
		ArtifactDir: "run-abc123",
		JSONFile:    "weread_notes_1700000000.json",
		ExcelFile:   "weread_notes_1700000000.xlsx",
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
	}

	require.NoError(t, repo.SaveRun(run))
	assert.NotZero(t, run.ID)

	saved, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusCompleted, saved.Status)
	assert.Equal(t, 3, saved.BookCount)
	assert.Equal(t, "run-abc123", saved.ArtifactDir)
}

func TestRepository_SaveRun_Failed(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	run := &entities.ExportRun{
		Status:    entities.RunStatusFailed,
		Error:     "could not fetch notebook list",
		StartedAt: time.Now(),
	}

	require.NoError(t, repo.SaveRun(run))

	saved, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusFailed, saved.Status)
	assert.Equal(t, "could not fetch notebook list", saved.Error)
	assert.Empty(t, saved.ArtifactDir)
}

func TestRepository_RecentRuns_NewestFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveRun(&entities.ExportRun{
			Status:    entities.RunStatusCompleted,
			BookCount: i + 1,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := repo.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 3, runs[0].BookCount)
	assert.Equal(t, 1, runs[2].BookCount)
}

func TestRepository_RecentRuns_Limit(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveRun(&entities.ExportRun{
			Status:    entities.RunStatusCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := repo.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = repo.RecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestRepository_GetRun_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetRun(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
