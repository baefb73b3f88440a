package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// NewHandler returns the fixture site's routes: the page at every app
// route and 503 for anything under /api/, which only a route mock should
// ever answer.
func NewHandler(logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	page := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(HTMLPage))
	}
	mux.HandleFunc("GET /{$}", page)
	mux.HandleFunc("GET /book-list", page)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("unmocked API call reached fixture site", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "fixture site has no backend: "+strings.TrimPrefix(r.URL.Path, "/api/")+" must be mocked",
			http.StatusServiceUnavailable)
	})

	return mux
}
