package feed

import (
	"context"
	"fmt"

	"github.com/danielmmetz/hn-live/hn"
	"github.com/danielmmetz/hn-live/readability"
)

// OpenItem resolves a bare item id, as found in update notifications. A
// comment opens the thread of its parent; anything else comes back as a
// single item and leaves the feed untouched.
func (s *Session) OpenItem(ctx context.Context, id int) (*hn.Item, *Thread, error) {
	gen := s.beginDetail(ActionItem)

	var err error
	res := s.gw.Item(ctx, id)
	if res.Failed() {
		err = fmt.Errorf("load item %d: %w", id, res.Err)
	}
	if !s.finishDetail(gen, ActionItem, err, nil) {
		return nil, nil, ErrSuperseded
	}
	if err != nil {
		return nil, nil, err
	}

	if res.Item.Type == hn.KindComment && res.Item.Parent != 0 {
		thread, err := s.OpenComments(ctx, res.Item.Parent)
		return nil, thread, err
	}
	return res.Item, nil, nil
}

// OpenArticle extracts the reader-mode article linked by a story.
func (s *Session) OpenArticle(ctx context.Context, storyID int) (*readability.Article, error) {
	gen := s.beginDetail(ActionArticle)

	article, err := s.readArticle(ctx, storyID)
	if !s.finishDetail(gen, ActionArticle, err, nil) {
		return nil, ErrSuperseded
	}
	return article, err
}

func (s *Session) readArticle(ctx context.Context, storyID int) (*readability.Article, error) {
	if s.articles == nil {
		return nil, ErrNoReader
	}
	res := s.gw.Item(ctx, storyID)
	if res.Failed() {
		return nil, fmt.Errorf("load story %d: %w", storyID, res.Err)
	}
	if res.Item.URL == "" {
		return nil, ErrNoURL
	}
	article, err := s.articles.Read(ctx, res.Item.URL)
	if err != nil {
		return nil, fmt.Errorf("read article for story %d: %w", storyID, err)
	}
	if article.Title == "" {
		article.Title = res.Item.Title
	}
	return article, nil
}
