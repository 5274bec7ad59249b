package feed

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/danielmmetz/hn-live/hn"
	"github.com/danielmmetz/hn-live/readability"
)

func TestOpenUserAndSubmissions(t *testing.T) {
	gw := newFakeGateway()
	gw.users["tptacek"] = &hn.User{ID: "tptacek", Karma: 400000, Submitted: seq(1, 12)}
	gw.addStories(seq(1, 12)...)
	gw.add(&hn.Item{ID: 4, Type: hn.KindComment, Deleted: true})
	s := New(gw, nil, DefaultConfig())
	ctx := context.Background()

	if _, err := s.LoadSubmissions(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("LoadSubmissions without profile: %v, want ErrNoUser", err)
	}

	u, err := s.OpenUser(ctx, "tptacek")
	if err != nil {
		t.Fatal(err)
	}
	if u.Karma != 400000 {
		t.Errorf("karma = %d", u.Karma)
	}
	if n := len(gw.calls()); n != 0 {
		t.Errorf("opening a profile fetched %d items, want none", n)
	}

	subs, err := s.LoadSubmissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := resultIDs(subs); !slices.Equal(got, []int{1, 2, 3, 5, 6, 7, 8, 9, 10}) {
		t.Errorf("submissions = %v", got)
	}

	ev := s.Dispatch(ctx, LoadSubmissions{})
	if sl, ok := ev.(SubmissionsLoaded); !ok || sl.Handle != "tptacek" {
		t.Errorf("LoadSubmissions event = %#v", ev)
	}
}

func TestOpenItem(t *testing.T) {
	gw := newFakeGateway()
	gw.add(
		&hn.Item{ID: 1, Type: hn.KindStory, Title: "Launch HN", Kids: []int{2}},
		&hn.Item{ID: 2, Type: hn.KindComment, Parent: 1},
		&hn.Item{ID: 3, Type: hn.KindJob, Title: "Hiring"},
	)
	s := New(gw, nil, DefaultConfig())
	ctx := context.Background()

	ev := s.Dispatch(ctx, OpenItem{ID: 2})
	cl, ok := ev.(CommentsLoaded)
	if !ok {
		t.Fatalf("comment item event = %T, want CommentsLoaded", ev)
	}
	if cl.Thread.Story.ID != 1 || len(cl.Thread.Comments) != 1 {
		t.Errorf("thread = %+v", cl.Thread)
	}

	ev = s.Dispatch(ctx, OpenItem{ID: 3})
	il, ok := ev.(ItemLoaded)
	if !ok || il.Item.ID != 3 {
		t.Fatalf("job item event = %#v", ev)
	}
	if len(s.Snapshot().Items) != 0 {
		t.Error("opening a single item must not touch the feed")
	}

	if ev := s.Dispatch(ctx, OpenItem{ID: 404}); ev.Kind() != "action_failed" {
		t.Errorf("missing item event = %s", ev.Kind())
	}
}

type fakeReader struct {
	urls []string
	err  error
}

func (f *fakeReader) Read(ctx context.Context, rawURL string) (*readability.Article, error) {
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	return &readability.Article{URL: rawURL, Content: "<p>body</p>"}, nil
}

func TestOpenArticle(t *testing.T) {
	gw := newFakeGateway()
	gw.add(
		&hn.Item{ID: 1, Type: hn.KindStory, Title: "A post", URL: "https://example.com/post"},
		&hn.Item{ID: 2, Type: hn.KindStory, Title: "Ask HN: no link"},
	)
	reader := &fakeReader{}
	s := New(gw, reader, DefaultConfig())
	ctx := context.Background()

	a, err := s.OpenArticle(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "A post" {
		t.Errorf("title = %q, want story title as fallback", a.Title)
	}
	if !slices.Equal(reader.urls, []string{"https://example.com/post"}) {
		t.Errorf("reader urls = %v", reader.urls)
	}

	if _, err := s.OpenArticle(ctx, 2); !errors.Is(err, ErrNoURL) {
		t.Errorf("story without url: %v, want ErrNoURL", err)
	}

	noReader := New(gw, nil, DefaultConfig())
	if _, err := noReader.OpenArticle(ctx, 1); !errors.Is(err, ErrNoReader) {
		t.Errorf("without reader: %v, want ErrNoReader", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{PageSize: 30, ReplyBatch: -1}.withDefaults()
	want := DefaultConfig()
	want.PageSize = 30
	if cfg != want {
		t.Errorf("withDefaults = %+v, want %+v", cfg, want)
	}
}
