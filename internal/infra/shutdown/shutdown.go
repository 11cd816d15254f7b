// Package shutdown provides graceful shutdown handling for outpost
// processes.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook is a shutdown step. Hooks run in reverse registration order.
type Hook func(context.Context) error

// Handler coordinates graceful shutdown on SIGINT/SIGTERM.
type Handler struct {
	timeout time.Duration
	mu      sync.Mutex
	hooks   []Hook
	trigger chan struct{}
	once    sync.Once
	done    chan struct{}
}

// NewHandler creates a shutdown handler. The timeout bounds the total
// time given to all hooks.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Trigger initiates shutdown programmatically, as if a signal arrived.
func (h *Handler) Trigger() {
	h.once.Do(func() { close(h.trigger) })
}

// Wait blocks until a shutdown signal or Trigger, then runs the hooks
// in reverse order. All hook errors are joined into the return value.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-h.trigger:
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel closed once all hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
