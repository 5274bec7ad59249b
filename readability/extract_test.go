package readability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Why Go Channels Matter</title></head>
<body>
<nav><a href="/">home</a></nav>
<article>
<h1>Why Go Channels Matter</h1>
<p>Channels let goroutines communicate by sharing memory through message passing instead of locks.
This paragraph is long enough that the extractor treats it as real body content rather than chrome.</p>
<p>A second paragraph adds more words about buffered channels, select statements, and cancellation
through context values so the readability scoring has plenty of text to work with here.</p>
<p>A third paragraph closes the article with a note on worker pools and fan-in patterns that are
common in network services written in Go, which should push the score well above the threshold.</p>
</article>
</body></html>`

func TestRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/post":
			if ua := r.Header.Get("User-Agent"); ua != userAgent {
				t.Errorf("User-Agent = %q, want %q", ua, userAgent)
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, articleHTML)
		case "/big":
			w.Write([]byte(strings.Repeat("a", maxBodySize+10)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewReader(srv.Client())
	ctx := context.Background()

	a, err := r.Read(ctx, srv.URL+"/post")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(a.Content, "message passing") {
		t.Errorf("content missing body text: %q", a.Content)
	}
	if a.URL != srv.URL+"/post" {
		t.Errorf("URL = %q", a.URL)
	}

	if _, err := r.Read(ctx, srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := r.Read(ctx, srv.URL+"/big"); err == nil {
		t.Error("expected error for oversized body")
	}
	if _, err := r.Read(ctx, "ftp://example.com/file"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}
