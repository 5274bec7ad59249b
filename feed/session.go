// Package feed implements the browsing session over the Hacker News read
// API: topic pagination, comment thread assembly, user profiles and a
// best-effort keyword search.
package feed

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/danielmmetz/hn-live/hn"
	"github.com/danielmmetz/hn-live/readability"
)

var (
	// ErrSuperseded is returned when a newer action replaced the view
	// before this one completed. Its results were discarded.
	ErrSuperseded = errors.New("superseded by a newer action")
	ErrEmptyQuery = errors.New("empty search query")
	// ErrUnknownMaxItem means the upper bound for a search scan could not
	// be resolved, so nothing was scanned.
	ErrUnknownMaxItem = errors.New("unknown max item id")
	ErrNoURL          = errors.New("item has no url")
	ErrNoUser         = errors.New("no user profile open")
	ErrNoReader       = errors.New("article reader not configured")
)

// Gateway is the upstream read API. *hn.Client implements it.
type Gateway interface {
	Item(ctx context.Context, id int) hn.Result
	Items(ctx context.Context, ids []int, limit int) []hn.Result
	TopicIDs(ctx context.Context, topic hn.Topic) ([]int, error)
	User(ctx context.Context, handle string) hn.UserResult
	MaxItem(ctx context.Context) (int, error)
}

// ArticleReader extracts reader-mode content. *readability.Reader implements it.
type ArticleReader interface {
	Read(ctx context.Context, rawURL string) (*readability.Article, error)
}

// Page is a snapshot of the accumulated story list for the active topic.
type Page struct {
	Topic   hn.Topic    `json:"topic"`
	Items   []hn.Result `json:"items"`
	Cursor  int         `json:"cursor"`
	Total   int         `json:"total"`
	HasMore bool        `json:"has_more"`
}

// Session owns the state of one browsing view. Methods are safe for
// concurrent use; state is only updated when an action completes and is
// still current.
type Session struct {
	gw       Gateway
	articles ArticleReader
	cfg      Config

	mu sync.Mutex
	// gen is bumped by SelectTopic and Search; detailGen by the actions
	// that open a single item or user.
	gen       uint64
	detailGen uint64
	topic     hn.Topic
	ids       []int
	cursor    int
	items     []hn.Result
	thread    *Thread
	user      *hn.User
	search    *SearchResult
	status    map[Action]actionState
}

type actionState struct {
	status Status
	err    error
}

// New creates a Session. articles may be nil, in which case OpenArticle
// fails with ErrNoReader.
func New(gw Gateway, articles ArticleReader, cfg Config) *Session {
	return &Session{
		gw:       gw,
		articles: articles,
		cfg:      cfg.withDefaults(),
		topic:    hn.DefaultTopic,
		status:   make(map[Action]actionState),
	}
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Status reports the state of the most recent run of action.
func (s *Session) Status(a Action) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status[a]
	return st.status, st.err
}

func (s *Session) setStatusLocked(a Action, st Status, err error) {
	s.status[a] = actionState{status: st, err: err}
}

// SelectTopic replaces the feed with the first page of topic. Unknown
// topics fall back to hn.DefaultTopic. Calling it again always starts from
// a fresh reset.
func (s *Session) SelectTopic(ctx context.Context, topic hn.Topic) (Page, error) {
	topic = hn.ParseTopic(string(topic))

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.topic = topic
	s.ids = nil
	s.cursor = 0
	s.items = nil
	s.setStatusLocked(ActionTopic, StatusLoading, nil)
	s.mu.Unlock()

	ids, err := s.gw.TopicIDs(ctx, topic)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return Page{}, ErrSuperseded
	}
	s.ids = ids
	if err != nil {
		s.setStatusLocked(ActionTopic, StatusError, err)
		page := s.pageLocked()
		s.mu.Unlock()
		return page, fmt.Errorf("load %s stories: %w", topic, err)
	}
	s.mu.Unlock()

	page, err := s.extend(ctx, gen)
	if errors.Is(err, ErrSuperseded) {
		// A concurrent ExtendPage may have materialized the first page
		// for this same selection; that still counts as loaded.
		s.mu.Lock()
		current := gen == s.gen
		page = s.pageLocked()
		s.mu.Unlock()
		if !current {
			return Page{}, err
		}
	} else if err != nil {
		return page, err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.setStatusLocked(ActionTopic, StatusLoaded, nil)
	}
	s.mu.Unlock()
	return page, nil
}

// ExtendPage materializes the next window of the active topic and appends
// it, failure markers included, to the accumulated items.
func (s *Session) ExtendPage(ctx context.Context) (Page, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.extend(ctx, gen)
}

func (s *Session) extend(ctx context.Context, gen uint64) (Page, error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return Page{}, ErrSuperseded
	}
	start := s.cursor
	end := min(start+s.cfg.PageSize, len(s.ids))
	if start >= end {
		s.setStatusLocked(ActionPage, StatusLoaded, nil)
		page := s.pageLocked()
		s.mu.Unlock()
		return page, nil
	}
	window := slices.Clone(s.ids[start:end])
	s.setStatusLocked(ActionPage, StatusLoading, nil)
	s.mu.Unlock()

	results := s.gw.Items(ctx, window, s.cfg.Concurrency)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another extension for the same window may have landed first.
	if gen != s.gen || s.cursor != start {
		return Page{}, ErrSuperseded
	}
	s.items = append(s.items, results...)
	s.cursor = end
	s.setStatusLocked(ActionPage, StatusLoaded, nil)
	return s.pageLocked(), nil
}

// Snapshot returns the current feed page without fetching anything.
func (s *Session) Snapshot() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked()
}

func (s *Session) pageLocked() Page {
	return Page{
		Topic:   s.topic,
		Items:   slices.Clone(s.items),
		Cursor:  s.cursor,
		Total:   len(s.ids),
		HasMore: s.cursor < len(s.ids),
	}
}

// beginDetail starts an action that replaces the single-item view.
func (s *Session) beginDetail(a Action) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailGen++
	s.setStatusLocked(a, StatusLoading, nil)
	return s.detailGen
}

// finishDetail records the outcome of a detail action and runs apply if the
// action is still current. It reports whether the action was current.
func (s *Session) finishDetail(gen uint64, a Action, err error, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.detailGen {
		return false
	}
	if err != nil {
		s.setStatusLocked(a, StatusError, err)
		return true
	}
	if apply != nil {
		apply()
	}
	s.setStatusLocked(a, StatusLoaded, nil)
	return true
}
