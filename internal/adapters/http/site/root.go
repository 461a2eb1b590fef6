// Package site serves the embedded playground page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("playground serve failed")
)

// Register attaches the playground routes to mux. Only the exact root path
// is claimed so unknown paths still 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler serves the playground index page.
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticSub(), "index.html")
}
