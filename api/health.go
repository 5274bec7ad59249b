package api

import (
	"net/http"

	"github.com/danielmmetz/hn-live/sse"
	"github.com/danielmmetz/hn-live/store"
	"github.com/danielmmetz/hn-live/worker"
)

type HealthHandler struct {
	sessions *store.SessionStore
	broker   *sse.Broker
	poller   *worker.UpdatePoller
}

func NewHealthHandler(sessions *store.SessionStore, broker *sse.Broker, poller *worker.UpdatePoller) *HealthHandler {
	return &HealthHandler{sessions: sessions, broker: broker, poller: poller}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var lastPoll int64
	if latest := h.poller.Latest(); latest != nil {
		lastPoll = latest.Timestamp
	}
	resp := map[string]any{
		"status":      "ok",
		"sessions":    h.sessions.Count(),
		"subscribers": h.broker.SubscriberCount(),
		"last_poll":   lastPoll,
	}
	writeJSONStatus(w, http.StatusOK, resp)
}
