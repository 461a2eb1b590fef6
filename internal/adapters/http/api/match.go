package api

import (
	"context"
	"net/http"

	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/internal/domain/types"
)

// MatchDependencies defines the matcher operations exposed over HTTP.
type MatchDependencies interface {
	Match(ctx context.Context, description string) model.AvatarConfiguration
	FindAssets(ctx context.Context, description string) []model.AssetMatch
}

// matchRequest mirrors the OpenAPI schema for POST /match.
type matchRequest struct {
	Description string `json:"description"`
}

// MatchHandler handles /match and /assets.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleMatch handles POST /match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Match(r.Context(), req.Description))
}

// HandleAssets handles GET /assets?q= requests and returns ranked rows.
func (h *MatchHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matches := h.deps.FindAssets(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, types.Rank(matches))
}
