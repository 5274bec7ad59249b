package api

import (
	"net/http"

	"github.com/danielmmetz/hn-live/feed"
	"github.com/danielmmetz/hn-live/hn"
)

// FeedHandler turns HTTP requests into session intents. Every route must
// be wrapped with WithSession.
type FeedHandler struct{}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

type topicsResponse struct {
	Topics  []hn.Topic  `json:"topics"`
	Default hn.Topic    `json:"default"`
	Limits  feed.Config `json:"limits"`
}

// Topics handles GET /api/topics with the selectable topics and the batch
// limits the session pages with.
func (h *FeedHandler) Topics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, topicsResponse{
		Topics:  hn.Topics(),
		Default: hn.DefaultTopic,
		Limits:  sessionFrom(r).Config(),
	})
}

// SelectTopic handles POST /api/topics/{topic}
func (h *FeedHandler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	topic := hn.ParseTopic(r.PathValue("topic"))
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.SelectTopic{Topic: topic}))
}

// More handles POST /api/more
func (h *FeedHandler) More(w http.ResponseWriter, r *http.Request) {
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.ExtendPage{}))
}

// Feed handles GET /api/feed and returns the accumulated page without fetching.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	writeEvent(w, r, feed.PageLoaded{Page: sessionFrom(r).Snapshot()})
}

// Item handles GET /api/items/{id}
func (h *FeedHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.OpenItem{ID: id}))
}

// Search handles GET /api/search?q=
func (h *FeedHandler) Search(w http.ResponseWriter, r *http.Request) {
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.Search{Query: r.URL.Query().Get("q")}))
}
