package api

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

const placeholderPage = `<!DOCTYPE html><html><body><h1>hn-live</h1>` +
	`<p>API is running. Start the server with --static-dir to serve a client.</p></body></html>`

// NewStaticHandler serves the rendering layer from staticFS with an
// index.html fallback for client-side routes. A nil staticFS serves a
// placeholder page.
func NewStaticHandler(staticFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if staticFS == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(placeholderPage))
			return
		}

		urlPath := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if urlPath == "" {
			urlPath = "index.html"
		}

		if data, err := fs.ReadFile(staticFS, urlPath); err == nil {
			ct := mime.TypeByExtension(path.Ext(urlPath))
			if ct == "" {
				ct = "application/octet-stream"
			}
			w.Header().Set("Content-Type", ct)
			w.Header().Set("Cache-Control", "public, max-age=300")
			w.Write(data)
			return
		}

		if data, err := fs.ReadFile(staticFS, "index.html"); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Write(data)
			return
		}

		http.NotFound(w, r)
	}
}
