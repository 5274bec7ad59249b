package feed

import (
	"context"
	"fmt"
	"slices"

	"github.com/danielmmetz/hn-live/hn"
)

// OpenUser fetches a profile. Submitted ids stay unmaterialized until
// LoadSubmissions is called.
func (s *Session) OpenUser(ctx context.Context, handle string) (*hn.User, error) {
	gen := s.beginDetail(ActionUser)

	var err error
	u := s.gw.User(ctx, handle)
	if u.Failed() {
		err = fmt.Errorf("load user %s: %w", handle, u.Err)
	}
	if !s.finishDetail(gen, ActionUser, err, func() { s.user = u.User }) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return u.User, nil
}

// LoadSubmissions materializes the first SubmissionBatch submissions of the
// open profile. Deleted and dead items are left out.
func (s *Session) LoadSubmissions(ctx context.Context) ([]hn.Result, error) {
	s.mu.Lock()
	user := s.user
	gen := s.detailGen
	s.setStatusLocked(ActionSubmissions, StatusLoading, nil)
	s.mu.Unlock()

	if user == nil {
		s.mu.Lock()
		s.setStatusLocked(ActionSubmissions, StatusError, ErrNoUser)
		s.mu.Unlock()
		return nil, ErrNoUser
	}

	ids := slices.Clone(user.Submitted[:min(len(user.Submitted), s.cfg.SubmissionBatch)])
	subs := visible(s.gw.Items(ctx, ids, s.cfg.Concurrency))

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.detailGen {
		return nil, ErrSuperseded
	}
	s.setStatusLocked(ActionSubmissions, StatusLoaded, nil)
	return subs, nil
}

// User returns the open profile, if any.
func (s *Session) User() *hn.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}
