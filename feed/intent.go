package feed

import (
	"context"
	"errors"

	"github.com/danielmmetz/hn-live/hn"
	"github.com/danielmmetz/hn-live/readability"
)

// Intent is a user request consumed by Session.Dispatch.
type Intent interface {
	action() Action
}

type (
	SelectTopic     struct{ Topic hn.Topic }
	ExtendPage      struct{}
	OpenComments    struct{ ID int }
	OpenUser        struct{ Handle string }
	LoadSubmissions struct{}
	Search          struct{ Query string }
	OpenItem        struct{ ID int }
	OpenArticle     struct{ ID int }
)

func (SelectTopic) action() Action     { return ActionTopic }
func (ExtendPage) action() Action      { return ActionPage }
func (OpenComments) action() Action    { return ActionComments }
func (OpenUser) action() Action        { return ActionUser }
func (LoadSubmissions) action() Action { return ActionSubmissions }
func (Search) action() Action          { return ActionSearch }
func (OpenItem) action() Action        { return ActionItem }
func (OpenArticle) action() Action     { return ActionArticle }

// Event is the result of dispatching an Intent.
type Event interface {
	Kind() string
}

type PageLoaded struct {
	Page
}

type CommentsLoaded struct {
	Thread *Thread `json:"thread"`
}

type UserLoaded struct {
	User *hn.User `json:"user"`
}

type SubmissionsLoaded struct {
	Handle string      `json:"handle"`
	Items  []hn.Result `json:"items"`
}

type SearchCompleted struct {
	*SearchResult
}

// ItemLoaded is a single non-comment item shown on its own.
type ItemLoaded struct {
	Item *hn.Item `json:"item"`
}

type ArticleLoaded struct {
	StoryID int                  `json:"story_id"`
	Article *readability.Article `json:"article"`
}

// ActionFailed reports an action that completed with an error. The
// session stays usable.
type ActionFailed struct {
	Action  Action `json:"action"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// Superseded reports an action whose results were dropped because a newer
// action replaced the view first.
type Superseded struct {
	Action Action `json:"action"`
}

func (PageLoaded) Kind() string        { return "page_loaded" }
func (CommentsLoaded) Kind() string    { return "comments_loaded" }
func (UserLoaded) Kind() string        { return "user_loaded" }
func (SubmissionsLoaded) Kind() string { return "submissions_loaded" }
func (SearchCompleted) Kind() string   { return "search_completed" }
func (ItemLoaded) Kind() string        { return "item_loaded" }
func (ArticleLoaded) Kind() string     { return "article_loaded" }
func (ActionFailed) Kind() string      { return "action_failed" }
func (Superseded) Kind() string        { return "superseded" }

// Dispatch runs the action named by in and reports its outcome.
func (s *Session) Dispatch(ctx context.Context, in Intent) Event {
	var (
		ev  Event
		err error
	)
	switch in := in.(type) {
	case SelectTopic:
		var p Page
		p, err = s.SelectTopic(ctx, in.Topic)
		ev = PageLoaded{p}
	case ExtendPage:
		var p Page
		p, err = s.ExtendPage(ctx)
		ev = PageLoaded{p}
	case OpenComments:
		var t *Thread
		t, err = s.OpenComments(ctx, in.ID)
		ev = CommentsLoaded{t}
	case OpenUser:
		var u *hn.User
		u, err = s.OpenUser(ctx, in.Handle)
		ev = UserLoaded{u}
	case LoadSubmissions:
		var subs []hn.Result
		subs, err = s.LoadSubmissions(ctx)
		handle := ""
		if u := s.User(); u != nil {
			handle = u.ID
		}
		ev = SubmissionsLoaded{Handle: handle, Items: subs}
	case Search:
		var r *SearchResult
		r, err = s.Search(ctx, in.Query)
		ev = SearchCompleted{r}
	case OpenItem:
		var (
			it *hn.Item
			t  *Thread
		)
		it, t, err = s.OpenItem(ctx, in.ID)
		if t != nil {
			ev = CommentsLoaded{t}
		} else {
			ev = ItemLoaded{it}
		}
	case OpenArticle:
		var a *readability.Article
		a, err = s.OpenArticle(ctx, in.ID)
		ev = ArticleLoaded{StoryID: in.ID, Article: a}
	default:
		return ActionFailed{Err: errors.New("unknown intent"), Message: "unknown intent"}
	}

	switch {
	case errors.Is(err, ErrSuperseded):
		return Superseded{Action: in.action()}
	case err != nil:
		return ActionFailed{Action: in.action(), Err: err, Message: err.Error()}
	}
	return ev
}
