package media

import (
	"context"
	"log/slog"
	"time"
)

// Refresher periodically reloads every registered catalog that supports it.
type Refresher struct {
	registry *Registry
	interval time.Duration
}

// NewRefresher creates a new Refresher.
func NewRefresher(registry *Registry, interval time.Duration) *Refresher {
	return &Refresher{
		registry: registry,
		interval: interval,
	}
}

// Start begins the refresh loop. It blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	slog.Info("catalog refresher started", "interval", r.interval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	for _, name := range r.registry.Names() {
		if ctx.Err() != nil {
			return
		}
		c, _ := r.registry.Get(name)
		reloader, ok := c.(Reloader)
		if !ok {
			continue
		}
		if err := reloader.Reload(ctx); err != nil {
			slog.Warn("catalog refresher: reload failed, keeping previous assets", "catalog", name, "error", err)
		}
	}
}
