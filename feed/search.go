package feed

import (
	"context"
	"errors"
	"strings"

	"github.com/danielmmetz/hn-live/hn"
)

// SearchResult holds the outcome of Search. When User is set the query
// matched a handle and no scan was run. Otherwise Items holds the matches
// of a scan over the Scanned most recent ids, newest first. The scan is
// approximate: anything older than the scanned window is never seen.
type SearchResult struct {
	Query       string    `json:"query"`
	User        *hn.User  `json:"user,omitempty"`
	Items       []hn.Item `json:"items"`
	MaxItem     int       `json:"max_item"`
	Scanned     int       `json:"scanned"`
	Approximate bool      `json:"approximate"`
}

// Search looks query up as a user handle first and returns that profile if
// it exists, making it the session's open profile. Otherwise it walks item ids down from the current max item,
// one request at a time, collecting live items whose title, text or author
// contains query (case-insensitive). It stops after ScanBudget ids or
// ResultCap matches.
func (s *Session) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.setStatusLocked(ActionSearch, StatusLoading, nil)
	s.mu.Unlock()

	res, err := s.runSearch(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.setStatusLocked(ActionSearch, StatusError, err)
		return res, err
	}
	s.search = res
	s.setStatusLocked(ActionSearch, StatusLoaded, nil)
	if res.User != nil {
		// A handle hit opens that profile, so its submissions can be loaded next.
		s.detailGen++
		s.user = res.User
		s.setStatusLocked(ActionUser, StatusLoaded, nil)
	}
	return res, nil
}

func (s *Session) runSearch(ctx context.Context, query string) (*SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	res := &SearchResult{Query: query, Items: []hn.Item{}}

	if u := s.gw.User(ctx, query); !u.Failed() && u.User.ID != "" {
		res.User = u.User
		return res, nil
	}

	res.Approximate = true
	maxID, err := s.gw.MaxItem(ctx)
	if maxID <= 0 {
		if err == nil {
			err = ErrUnknownMaxItem
		} else {
			err = errors.Join(ErrUnknownMaxItem, err)
		}
		return res, err
	}
	res.MaxItem = maxID

	needle := strings.ToLower(query)
	for i := 0; i < s.cfg.ScanBudget && len(res.Items) < s.cfg.ResultCap; i++ {
		id := maxID - i
		if id < 1 || ctx.Err() != nil {
			break
		}
		r := s.gw.Item(ctx, id)
		res.Scanned++
		if r.Failed() || r.Item.Hidden() {
			continue
		}
		if matches(r.Item, needle) {
			res.Items = append(res.Items, *r.Item)
		}
	}
	return res, nil
}

func matches(it *hn.Item, needle string) bool {
	return strings.Contains(strings.ToLower(it.Title), needle) ||
		strings.Contains(strings.ToLower(it.Text), needle) ||
		strings.Contains(strings.ToLower(it.By), needle)
}

// LastSearch returns the result of the most recent completed search.
func (s *Session) LastSearch() *SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}
