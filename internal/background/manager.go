package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
)

// Minimum configuration values to prevent misconfiguration
const (
	MinWorkers     = 1
	MinTaskTimeout = time.Second
)

// Manager runs fire-and-forget post-commit work under a bounded worker pool.
// Tasks are isolated: a panic or timeout in one task is logged and absorbed,
// never surfaced to the submitter.
type Manager struct {
	config *config.Config
	logger types.Logger
	slots  chan struct{}

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	baseCtx context.Context
	wg      sync.WaitGroup
}

func NewManager(cfg *config.Config) *Manager {
	workers := cfg.BackgroundTasks.MaxConcurrentTasks
	if workers < MinWorkers {
		workers = MinWorkers
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config:  cfg,
		logger:  logging.GetGlobalLogger(),
		slots:   make(chan struct{}, workers),
		baseCtx: baseCtx,
		cancel:  cancel,
	}
}

// Submit schedules fn on the pool. It fails fast when the pool is saturated
// or the manager is stopping; callers treat that as a logged, non-fatal
// condition.
func (m *Manager) Submit(name string, fn func(ctx context.Context)) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return fmt.Errorf("task manager is stopped")
	}
	m.mu.Unlock()

	select {
	case m.slots <- struct{}{}:
	default:
		return fmt.Errorf("task manager at capacity, rejecting task %s", name)
	}

	m.wg.Add(1)
	go m.run(name, fn)
	return nil
}

func (m *Manager) run(name string, fn func(ctx context.Context)) {
	defer m.wg.Done()
	defer func() { <-m.slots }()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Background task panicked", map[string]interface{}{
				"task":  name,
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	timeout := m.config.BackgroundTasks.TaskTimeout
	if timeout < MinTaskTimeout {
		timeout = MinTaskTimeout
	}
	ctx, cancelTask := context.WithTimeout(m.baseCtx, timeout)
	defer cancelTask()

	startTime := time.Now()
	fn(ctx)

	m.logger.Debug("Background task finished", map[string]interface{}{
		"task":     name,
		"duration": time.Since(startTime),
	})
}

// Stop rejects new tasks and waits for running ones, up to the context
// deadline. Tasks still running at the deadline are cancelled through the
// base context.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.cancel()
		return fmt.Errorf("timed out waiting for background tasks: %w", ctx.Err())
	}
}

// IsHealthy reports whether the manager is accepting tasks
func (m *Manager) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.stopped
}
