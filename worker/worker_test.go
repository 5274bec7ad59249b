package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielmmetz/hn-live/hn"
)

type fakeSource struct {
	updates hn.Updates
	err     error
	calls   atomic.Int32
}

func (f *fakeSource) Updates(ctx context.Context) (hn.Updates, error) {
	f.calls.Add(1)
	return f.updates, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (r *recordingPublisher) Publish(eventType string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v)
	return nil
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestUpdatePoller_Poll(t *testing.T) {
	src := &fakeSource{updates: hn.Updates{
		Items:    []int{1, 2, 3, 4, 5, 6, 7},
		Profiles: []string{"a", "b"},
	}}
	pub := &recordingPublisher{}
	p := NewUpdatePoller(src, pub, time.Minute, 5)

	if p.Latest() != nil {
		t.Error("Latest before first poll should be nil")
	}
	p.poll(context.Background())

	latest := p.Latest()
	if latest == nil || len(latest.Items) != 5 || len(latest.Profiles) != 2 {
		t.Fatalf("Latest = %+v, want 5 items and 2 profiles", latest)
	}
	if pub.count() != 1 {
		t.Errorf("published %d events, want 1", pub.count())
	}
}

func TestUpdatePoller_ErrorsKeepLastResult(t *testing.T) {
	src := &fakeSource{updates: hn.Updates{Items: []int{9}, Profiles: []string{}}}
	pub := &recordingPublisher{}
	p := NewUpdatePoller(src, pub, time.Minute, 5)

	p.poll(context.Background())
	src.err = errors.New("status 500")
	p.poll(context.Background())

	if latest := p.Latest(); latest == nil || latest.Items[0] != 9 {
		t.Errorf("Latest = %+v, want the last good poll", latest)
	}
	if pub.count() != 1 {
		t.Errorf("published %d events, want 1", pub.count())
	}
}

func TestUpdatePoller_Start(t *testing.T) {
	src := &fakeSource{updates: hn.Updates{Items: []int{1}, Profiles: []string{}}}
	pub := &recordingPublisher{}
	p := NewUpdatePoller(src, pub, 10*time.Millisecond, 5)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if n := src.calls.Load(); n < 3 {
		t.Errorf("polled %d times, want at least 3", n)
	}
}

type countingExpirer struct{ calls atomic.Int32 }

func (c *countingExpirer) DeleteExpired() int {
	c.calls.Add(1)
	return 1
}

func TestCleaner_Start(t *testing.T) {
	exp := &countingExpirer{}
	c := NewCleaner(exp, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for exp.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := exp.calls.Load(); n < 2 {
		t.Errorf("swept %d times, want at least 2", n)
	}
}
