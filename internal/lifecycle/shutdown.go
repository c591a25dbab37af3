// Package lifecycle manages graceful shutdown for the quorumd process:
// signal interception, root context cancellation, and ordered wind-down of
// the HTTP server and stores. In-flight rounds run to their natural end or
// to the shutdown grace period, whichever comes first.
package lifecycle

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownConfig configures the shutdown behavior.
type ShutdownConfig struct {
	GracePeriod time.Duration // time to wait for hooks before giving up
}

// DefaultShutdownConfig returns sensible defaults.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{GracePeriod: 15 * time.Second}
}

// ShutdownHook is called during graceful shutdown. Name is for logging.
type ShutdownHook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Manager coordinates shutdown for the server process.
type Manager struct {
	config   ShutdownConfig
	logger   *slog.Logger
	cancel   context.CancelFunc
	mu       sync.Mutex
	hooks    []ShutdownHook
	started  time.Time
	shutdown bool
}

// NewManager creates a lifecycle manager.
func NewManager(config ShutdownConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		config:  config,
		logger:  logger,
		started: time.Now(),
	}
}

// OnShutdown registers a hook to run during graceful shutdown.
// Hooks run in registration order.
func (m *Manager) OnShutdown(name string, fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, ShutdownHook{Name: name, Fn: fn})
}

// Run installs signal handlers, runs the main function with a cancellable
// root context, and drives shutdown. Returns the process exit code.
func (m *Manager) Run(mainFn func(ctx context.Context) error) int {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		errCh <- mainFn(ctx)
	}()

	select {
	case sig := <-sigCh:
		m.logger.Info("received signal, starting graceful shutdown",
			"signal", sig.String(),
			"uptime", time.Since(m.started).String(),
		)
		return m.gracefulShutdown()

	case err := <-errCh:
		if err != nil {
			m.logger.Error("server error", "error", err)
			m.runHooks(m.config.GracePeriod)
			return 1
		}
		m.runHooks(m.config.GracePeriod)
		return 0
	}
}

// gracefulShutdown cancels the root context and runs hooks with a deadline.
func (m *Manager) gracefulShutdown() int {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return 1
	}
	m.shutdown = true
	m.mu.Unlock()

	m.cancel()
	m.runHooks(m.config.GracePeriod)

	m.logger.Info("graceful shutdown complete",
		"uptime", time.Since(m.started).String(),
	)
	return 0
}

// runHooks runs all registered hooks under one shared deadline.
func (m *Manager) runHooks(timeout time.Duration) {
	m.mu.Lock()
	hooks := make([]ShutdownHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, hook := range hooks {
		m.logger.Info("running shutdown hook", "name", hook.Name)
		if err := hook.Fn(ctx); err != nil {
			m.logger.Error("shutdown hook failed", "name", hook.Name, "error", err)
		}
	}
}

// Uptime returns how long the process has been running.
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.started)
}
