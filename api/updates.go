package api

import (
	"net/http"

	"github.com/danielmmetz/hn-live/worker"
)

type UpdatesHandler struct {
	poller *worker.UpdatePoller
}

func NewUpdatesHandler(poller *worker.UpdatePoller) *UpdatesHandler {
	return &UpdatesHandler{poller: poller}
}

// ServeHTTP handles GET /api/updates with the latest polled notice.
func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	latest := h.poller.Latest()
	if latest == nil {
		latest = &worker.UpdateNotice{Items: []int{}, Profiles: []string{}}
	}
	writeJSON(w, r, latest)
}
