// Package goroutine provides a bounded manager for background tasks so the
// application can drain them during shutdown.
package goroutine

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Manager runs named background functions with a concurrency limit and
// collects their errors for the final Wait during shutdown.
type Manager struct {
	eg *errgroup.Group
}

// NewManager creates a Manager. A limit below 1 means unbounded.
func NewManager(limit int) *Manager {
	eg := &errgroup.Group{}
	if limit > 0 {
		eg.SetLimit(limit)
	}

	return &Manager{eg: eg}
}

// Go schedules fn on the group. Panics are recovered and converted into
// errors so one bad task cannot take the process down.
func (m *Manager) Go(name string, fn func() error) {
	m.eg.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("goroutine %q panicked: %v", name, r)
				slog.Error("background task panicked", "name", name, "panic", r)
			}
		}()

		if err := fn(); err != nil {
			return fmt.Errorf("goroutine %q: %w", name, err)
		}
		return nil
	})
}

// Wait blocks until all scheduled tasks finish and returns the first error.
func (m *Manager) Wait() error {
	return m.eg.Wait()
}
