package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-exporter/internal/tasks"
)

func newTestTaskClient(t *testing.T) *tasks.Client {
	t.Helper()
	cfg := tasks.DefaultConfig()
	cfg.Workers = 1
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCleanupScheduler_StartStop(t *testing.T) {
	client := newTestTaskClient(t)
	s := NewCleanupScheduler(client, "0 * * * *", "./outputs", 24)

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestCleanupScheduler_RejectsInvalidSchedule(t *testing.T) {
	client := newTestTaskClient(t)
	s := NewCleanupScheduler(client, "not a schedule", "./outputs", 24)

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestCleanupScheduler_StopsOnContextCancel(t *testing.T) {
	client := newTestTaskClient(t)
	s := NewCleanupScheduler(client, "0 * * * *", "./outputs", 24)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestCleanupScheduler_RunNowEnqueues(t *testing.T) {
	client := newTestTaskClient(t)
	client.Register(tasks.NewCleanupOutputsQueue())

	s := NewCleanupScheduler(client, "0 * * * *", t.TempDir(), 24)

	// Enqueueing must not require the scheduler to be started.
	s.RunNow()
}
