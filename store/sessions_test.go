package store

import (
	"testing"
	"time"

	"github.com/danielmmetz/hn-live/feed"
	"github.com/danielmmetz/hn-live/hn"
)

func newTestStore(ttl time.Duration) (*SessionStore, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore(ttl, func() *feed.Session {
		return feed.New(hn.NewClient(), nil, feed.DefaultConfig())
	})
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessionStore_CreateGet(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	token, sess := s.Create()
	got, ok := s.Get(token)
	if !ok || got != sess {
		t.Fatalf("Get(%q) = %v, %v; want created session", token, got, ok)
	}

	other, _ := s.Create()
	if other == token {
		t.Error("tokens should be unique")
	}
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}

	if _, ok := s.Get("not-a-token"); ok {
		t.Error("malformed token should not resolve")
	}
	if _, ok := s.Get("00000000-0000-0000-0000-000000000000"); ok {
		t.Error("unknown token should not resolve")
	}

	s.Delete(token)
	if _, ok := s.Get(token); ok {
		t.Error("deleted session should not resolve")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	s, now := newTestStore(time.Hour)

	idle, _ := s.Create()
	active, _ := s.Create()

	*now = now.Add(40 * time.Minute)
	if _, ok := s.Get(active); !ok {
		t.Fatal("active session expired early")
	}

	*now = now.Add(30 * time.Minute)
	if n := s.DeleteExpired(); n != 1 {
		t.Errorf("DeleteExpired = %d, want 1", n)
	}
	if _, ok := s.Get(idle); ok {
		t.Error("idle session should have expired")
	}
	if _, ok := s.Get(active); !ok {
		t.Error("session touched 30 minutes ago should still be live")
	}

	*now = now.Add(2 * time.Hour)
	if _, ok := s.Get(active); ok {
		t.Error("Get should not return an expired session")
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}
}
