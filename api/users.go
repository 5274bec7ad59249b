package api

import (
	"net/http"

	"github.com/danielmmetz/hn-live/feed"
)

// User handles GET /api/users/{handle}
func (h *FeedHandler) User(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		http.Error(w, "invalid handle", http.StatusBadRequest)
		return
	}
	writeEvent(w, r, sessionFrom(r).Dispatch(r.Context(), feed.OpenUser{Handle: handle}))
}

// Submissions handles GET /api/users/{handle}/submissions. The profile is
// opened first unless it is already the session's current one.
func (h *FeedHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	handle := r.PathValue("handle")
	if u := sess.User(); u == nil || u.ID != handle {
		if ev := sess.Dispatch(r.Context(), feed.OpenUser{Handle: handle}); ev.Kind() != "user_loaded" {
			writeEvent(w, r, ev)
			return
		}
	}
	writeEvent(w, r, sess.Dispatch(r.Context(), feed.LoadSubmissions{}))
}
