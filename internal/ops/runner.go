package ops

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Runner starts operations in the background.
type Runner interface {
	// Go runs fn with a context derived from the runner's. The returned
	// function cancels that context.
	Go(name string, fn func(ctx context.Context) error) context.CancelFunc
}

// AsyncRunner runs every operation on its own goroutine.
type AsyncRunner struct {
	ctx    context.Context
	logger *log.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a runner whose operations stop when ctx is cancelled.
func NewRunner(ctx context.Context, logger *log.Logger) *AsyncRunner {
	return &AsyncRunner{ctx: ctx, logger: logger}
}

// Go implements Runner.
func (r *AsyncRunner) Go(name string, fn func(ctx context.Context) error) context.CancelFunc {
	ctx, cancel := context.WithCancel(r.ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Debug("operation returned error", "op", name, "err", err)
		}
	}()

	return cancel
}

// Wait blocks until every started operation has returned.
func (r *AsyncRunner) Wait() {
	r.wg.Wait()
}

// InlineRunner runs operations on the calling goroutine. Useful in tests and
// for work that must finish before the caller continues.
type InlineRunner struct {
	mu    sync.Mutex
	names []string
}

// Go implements Runner.
func (r *InlineRunner) Go(name string, fn func(ctx context.Context) error) context.CancelFunc {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	_ = fn(ctx)
	return cancel
}

// Started returns the names of the operations run so far.
func (r *InlineRunner) Started() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}
