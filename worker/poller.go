package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielmmetz/hn-live/hn"
)

// UpdateSource provides the upstream update-notification payload.
type UpdateSource interface {
	Updates(ctx context.Context) (hn.Updates, error)
}

// Publisher broadcasts an event to connected clients.
type Publisher interface {
	Publish(eventType string, v any) error
}

// UpdateNotice is the payload published on every successful poll.
type UpdateNotice struct {
	Items     []int    `json:"items"`
	Profiles  []string `json:"profiles"`
	Timestamp int64    `json:"timestamp"`
}

// UpdatePoller checks for changed items and profiles on a fixed interval.
// It shares no state with browsing sessions and never waits on them.
type UpdatePoller struct {
	source   UpdateSource
	pub      Publisher
	interval time.Duration
	limit    int

	mu     sync.RWMutex
	latest *UpdateNotice
}

// NewUpdatePoller publishes at most limit items and limit profiles per poll.
func NewUpdatePoller(source UpdateSource, pub Publisher, interval time.Duration, limit int) *UpdatePoller {
	return &UpdatePoller{
		source:   source,
		pub:      pub,
		interval: interval,
		limit:    limit,
	}
}

// Start begins the polling loop. It runs until the context is cancelled.
func (p *UpdatePoller) Start(ctx context.Context) {
	go func() {
		p.poll(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("poller: shutting down")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *UpdatePoller) poll(ctx context.Context) {
	u, err := p.source.Updates(ctx)
	if err != nil {
		slog.Error("poller: error fetching updates", "error", err)
		return
	}

	notice := &UpdateNotice{
		Items:     u.Items[:min(len(u.Items), p.limit)],
		Profiles:  u.Profiles[:min(len(u.Profiles), p.limit)],
		Timestamp: time.Now().Unix(),
	}

	p.mu.Lock()
	p.latest = notice
	p.mu.Unlock()

	if len(notice.Items) == 0 && len(notice.Profiles) == 0 {
		return
	}
	if err := p.pub.Publish("updates", notice); err != nil {
		slog.Error("poller: error publishing updates", "error", err)
		return
	}
	slog.Debug("poller: published updates", "items", len(notice.Items), "profiles", len(notice.Profiles))
}

// Latest returns the most recent successful poll, or nil before the first.
func (p *UpdatePoller) Latest() *UpdateNotice {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}
