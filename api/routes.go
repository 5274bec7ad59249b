package api

import (
	"io/fs"
	"net/http"

	"github.com/danielmmetz/hn-live/sse"
	"github.com/danielmmetz/hn-live/store"
	"github.com/danielmmetz/hn-live/worker"
)

// Routes builds the HTTP surface. staticFS may be nil.
func Routes(sessions *store.SessionStore, broker *sse.Broker, poller *worker.UpdatePoller, staticFS fs.FS) http.Handler {
	feedHandler := NewFeedHandler()
	updatesHandler := NewUpdatesHandler(poller)
	healthHandler := NewHealthHandler(sessions, broker, poller)

	withSession := func(hf http.HandlerFunc) http.Handler {
		return WithSession(sessions, hf)
	}

	mux := http.NewServeMux()

	mux.Handle("GET /api/topics", withSession(feedHandler.Topics))
	mux.Handle("POST /api/topics/{topic}", withSession(feedHandler.SelectTopic))
	mux.Handle("POST /api/more", withSession(feedHandler.More))
	mux.Handle("GET /api/feed", withSession(feedHandler.Feed))
	mux.Handle("GET /api/items/{id}/comments", withSession(feedHandler.Comments))
	mux.Handle("GET /api/items/{id}/article", withSession(feedHandler.Article))
	mux.Handle("GET /api/items/{id}", withSession(feedHandler.Item))
	mux.Handle("GET /api/users/{handle}/submissions", withSession(feedHandler.Submissions))
	mux.Handle("GET /api/users/{handle}", withSession(feedHandler.User))
	mux.Handle("GET /api/search", withSession(feedHandler.Search))

	mux.HandleFunc("DELETE /api/session", EndSession(sessions))

	mux.Handle("GET /api/updates", updatesHandler)
	mux.Handle("GET /api/events", broker)
	mux.Handle("GET /api/health", healthHandler)

	mux.HandleFunc("/", NewStaticHandler(staticFS))

	return mux
}
