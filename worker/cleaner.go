package worker

import (
	"context"
	"log/slog"
	"time"
)

// Expirer drops idle sessions and reports how many were removed.
type Expirer interface {
	DeleteExpired() int
}

type Cleaner struct {
	sessions Expirer
	interval time.Duration
}

func NewCleaner(sessions Expirer, interval time.Duration) *Cleaner {
	return &Cleaner{sessions: sessions, interval: interval}
}

// Start sweeps expired sessions every interval until the context is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("cleaner: shutting down")
				return
			case <-ticker.C:
				c.cleanup()
			}
		}
	}()
}

func (c *Cleaner) cleanup() {
	if n := c.sessions.DeleteExpired(); n > 0 {
		slog.Info("cleaner: dropped expired sessions", "count", n)
	}
}
