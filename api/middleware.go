package api

import (
	"context"
	"net/http"

	"github.com/danielmmetz/hn-live/feed"
	"github.com/danielmmetz/hn-live/store"
)

const sessionCookieName = "hn_session"

type sessionKey struct{}

// WithSession attaches the caller's feed session to the request context,
// starting a new one (and setting the cookie) when the cookie is missing or
// its session expired.
func WithSession(sessions *store.SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *feed.Session
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sess, _ = sessions.Get(cookie.Value)
		}
		if sess == nil {
			var token string
			token, sess = sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// EndSession handles DELETE /api/session. It drops the caller's session and
// clears the cookie; the next request starts a fresh one.
func EndSession(sessions *store.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessions.Delete(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionFrom(r *http.Request) *feed.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*feed.Session)
	return sess
}
