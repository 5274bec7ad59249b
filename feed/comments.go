package feed

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danielmmetz/hn-live/hn"
)

// CommentNode is a top-level comment (or a failure marker standing in for
// one) with its first replies. Replies are not expanded further.
type CommentNode struct {
	Comment hn.Result   `json:"comment"`
	Replies []hn.Result `json:"replies"`
}

// Thread is the comment view of a story.
type Thread struct {
	Story    hn.Result     `json:"story"`
	Comments []CommentNode `json:"comments"`
	// TotalKids counts the story's direct replies before batching.
	TotalKids int `json:"total_kids"`
}

// OpenComments fetches a story and assembles a two-level comment tree:
// the first CommentBatch direct replies, and for each visible reply that has
// children, its first ReplyBatch children. Deleted and dead comments are
// dropped and never trigger a reply fetch.
func (s *Session) OpenComments(ctx context.Context, storyID int) (*Thread, error) {
	gen := s.beginDetail(ActionComments)

	thread, err := s.assembleThread(ctx, storyID)
	if !s.finishDetail(gen, ActionComments, err, func() { s.thread = thread }) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *Session) assembleThread(ctx context.Context, storyID int) (*Thread, error) {
	story := s.gw.Item(ctx, storyID)
	if story.Failed() {
		return nil, fmt.Errorf("load story %d: %w", storyID, story.Err)
	}

	kids := story.Item.Kids
	batch := kids[:min(len(kids), s.cfg.CommentBatch)]
	top := s.gw.Items(ctx, batch, s.cfg.Concurrency)

	nodes := make([]CommentNode, 0, len(top))
	for _, c := range top {
		if !c.Failed() && c.Item.Hidden() {
			continue
		}
		nodes = append(nodes, CommentNode{Comment: c, Replies: []hn.Result{}})
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.ReplyParallelism)
	for i := range nodes {
		n := &nodes[i]
		if n.Comment.Failed() || len(n.Comment.Item.Kids) == 0 {
			continue
		}
		g.Go(func() error {
			kids := n.Comment.Item.Kids
			replies := s.gw.Items(ctx, kids[:min(len(kids), s.cfg.ReplyBatch)], s.cfg.Concurrency)
			n.Replies = visible(replies)
			return nil
		})
	}
	g.Wait()

	return &Thread{Story: story, Comments: nodes, TotalKids: len(kids)}, nil
}

// visible drops deleted and dead items, keeping failure markers.
func visible(results []hn.Result) []hn.Result {
	out := make([]hn.Result, 0, len(results))
	for _, r := range results {
		if !r.Failed() && r.Item.Hidden() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Thread returns the most recently opened comment thread, if any.
func (s *Session) Thread() *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread
}
