package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/internal/config"
)

func TestManagerRunsSubmittedTask(t *testing.T) {
	m := NewManager(config.DefaultConfig())
	defer func() { _ = m.Stop(context.Background()) }()

	var ran atomic.Bool
	done := make(chan struct{})
	require.NoError(t, m.Submit("test", func(_ context.Context) {
		ran.Store(true)
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	assert.True(t, ran.Load())
}

func TestManagerAbsorbsPanics(t *testing.T) {
	m := NewManager(config.DefaultConfig())

	require.NoError(t, m.Submit("panicky", func(_ context.Context) {
		panic("boom")
	}))

	require.NoError(t, m.Stop(context.Background()))
}

func TestManagerRejectsWhenSaturated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BackgroundTasks.MaxConcurrentTasks = 1
	m := NewManager(cfg)

	release := make(chan struct{})
	require.NoError(t, m.Submit("blocker", func(_ context.Context) {
		<-release
	}))

	err := m.Submit("rejected", func(_ context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")

	close(release)
	require.NoError(t, m.Stop(context.Background()))
}

func TestManagerRejectsAfterStop(t *testing.T) {
	m := NewManager(config.DefaultConfig())
	require.NoError(t, m.Stop(context.Background()))

	assert.False(t, m.IsHealthy())
	err := m.Submit("late", func(_ context.Context) {})
	require.Error(t, err)
}
