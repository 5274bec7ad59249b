// Package store keeps browsing sessions in memory. Nothing outlives the
// process.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielmmetz/hn-live/feed"
)

// SessionStore maps opaque tokens to feed sessions. Sessions expire after
// ttl without use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	factory  func() *feed.Session
	now      func() time.Time
}

type entry struct {
	session  *feed.Session
	lastSeen time.Time
}

func NewSessionStore(ttl time.Duration, factory func() *feed.Session) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a new session and returns its token.
func (s *SessionStore) Create() (string, *feed.Session) {
	token := uuid.NewString()
	sess := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &entry{session: sess, lastSeen: s.now()}
	return token, sess
}

// Get returns the live session for token and refreshes its expiry.
func (s *SessionStore) Get(token string) (*feed.Session, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, token)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// DeleteExpired drops every session idle for longer than the ttl and
// returns how many were removed.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for token, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
