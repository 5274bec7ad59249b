package api

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/danielmmetz/hn-live/feed"
)

type envelope struct {
	Kind string     `json:"kind"`
	Data feed.Event `json:"data"`
}

// writeEvent renders a session event. Failures keep the session usable, so
// they map to plain HTTP errors with a JSON body.
func writeEvent(w http.ResponseWriter, r *http.Request, ev feed.Event) {
	switch e := ev.(type) {
	case feed.ActionFailed:
		writeJSONStatus(w, failureStatus(e.Err), envelope{Kind: e.Kind(), Data: e})
	case feed.Superseded:
		writeJSONStatus(w, http.StatusConflict, envelope{Kind: e.Kind(), Data: e})
	default:
		writeJSON(w, r, envelope{Kind: ev.Kind(), Data: ev})
	}
}

func failureStatus(err error) int {
	switch {
	case errors.Is(err, feed.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, feed.ErrNoURL):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrNoUser):
		return http.StatusConflict
	case errors.Is(err, feed.ErrNoReader):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`"%x"`, md5.Sum(body))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Write(body)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
