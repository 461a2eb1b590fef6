// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/wardrobe/internal/domain/dedupe"
	"github.com/okian/wardrobe/internal/domain/model"
)

// defaultMaxLimit bounds list endpoints when no limit is configured.
const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	CatalogDependencies
	CharacterDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	matchHandler     *MatchHandler
	catalogHandler   *CatalogHandler
	characterHandler *CharacterHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /characters; values below 1 fall back to the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, maxLimit),
		matchHandler:     NewMatchHandler(deps),
		catalogHandler:   NewCatalogHandler(deps),
		characterHandler: NewCharacterHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/assets", MetricsMiddleware(s.matchHandler.HandleAssets, "assets"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandleCatalog, "catalog"))
	mux.HandleFunc("/characters", MetricsMiddleware(s.characterHandler.HandleCharacters, "characters"))
	mux.HandleFunc("/characters/{id}", MetricsMiddleware(s.characterHandler.HandleCharacter, "character"))
}

// CharacterDependencies is what the character endpoints need.
type CharacterDependencies interface {
	dedupe.Deduper

	// Enqueue submits a build and returns the id the character will have.
	Enqueue(ctx context.Context, r model.BuildRequest) (string, error)

	Character(ctx context.Context, id string) (model.Character, error)
	Characters(ctx context.Context, limit int) ([]model.Character, error)
	DeleteCharacter(ctx context.Context, id string) error
}
