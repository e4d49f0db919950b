package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/locked"
)

// Hook is a cleanup step run during shutdown.
type Hook func(context.Context) error

type hookEntry struct {
	fn Hook
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	signals []os.Signal
	// mu makes registration and the final snapshot of hooks mutually
	// exclusive, so every hook whose OnShutdown succeeded is run.
	mu      sync.Mutex
	hooks   *locked.List[*hookEntry]
	once    sync.Once
	err     error
	done    chan struct{}
}

// NewHandler creates a handler that gives hooks timeout to finish.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		hooks:   locked.New[*hookEntry](),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook. Hooks run in reverse order of
// registration. Registering after shutdown has started fails with
// collections.ErrUsedAfterDispose.
func (h *Handler) OnShutdown(hook Hook) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks.Add(&hookEntry{fn: hook})
}

// Context returns a context cancelled on SIGINT or SIGTERM.
func (h *Handler) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, h.signals...)
}

// Wait blocks until a termination signal arrives, then runs Shutdown.
func (h *Handler) Wait() error {
	ctx, stop := h.Context(context.Background())
	defer stop()
	<-ctx.Done()
	return h.Shutdown()
}

// Shutdown runs the hooks once, newest first, and returns their joined
// errors. Later calls return the same result.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		h.mu.Lock()
		hooks, _ := h.hooks.ToSlice()
		h.hooks.Dispose()
		h.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i].fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
	return h.err
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
