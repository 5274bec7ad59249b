package api

import (
	"net/http"

	"github.com/danielmmetz/hn-live/feed"
)

// Comments handles GET /api/items/{id}/comments
func (h *FeedHandler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.OpenComments{ID: id}))
}

// Article handles GET /api/items/{id}/article
func (h *FeedHandler) Article(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.OpenArticle{ID: id}))
}
