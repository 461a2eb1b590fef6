package api

import (
	"maps"
	"net/http"
)

// StatsProvider reports service state for GET /stats.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves the service snapshot plus the API's own limits.
type StatsHandler struct {
	provider StatsProvider
	maxLimit int
}

// NewStatsHandler returns a handler over provider. A nil provider yields
// only the API limits.
func NewStatsHandler(provider StatsProvider, maxLimit int) *StatsHandler {
	return &StatsHandler{provider: provider, maxLimit: maxLimit}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out := map[string]any{}
	if h.provider != nil {
		maps.Copy(out, h.provider.GetStats())
	}
	out["maxCharacterLimit"] = h.maxLimit
	writeJSON(w, http.StatusOK, out)
}
