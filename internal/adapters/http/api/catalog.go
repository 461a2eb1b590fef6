package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/wardrobe/internal/domain/model"
)

// CatalogDependencies defines read access to the loaded catalog.
type CatalogDependencies interface {
	CatalogEntries(ctx context.Context, slot string) []model.CatalogEntry
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCatalog handles GET /catalog[?slot=] requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries := h.deps.CatalogEntries(r.Context(), strings.TrimSpace(r.URL.Query().Get("slot")))
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
