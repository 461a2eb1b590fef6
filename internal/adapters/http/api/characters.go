package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/wardrobe/internal/adapters/mq/queue"
	"github.com/okian/wardrobe/internal/adapters/repository"
	"github.com/okian/wardrobe/internal/domain/model"
)

const defaultListLimit = 20

// characterRequest mirrors the OpenAPI schema for POST /characters.
type characterRequest struct {
	RequestID   string `json:"request_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c characterRequest) validate() error {
	switch {
	case strings.TrimSpace(c.RequestID) == "":
		return errors.New("missing request_id")
	case strings.TrimSpace(c.Description) == "":
		return errors.New("missing description")
	}
	return nil
}

type ackResponse struct {
	Status      string `json:"status"`
	Duplicate   bool   `json:"duplicate"`
	CharacterID string `json:"character_id,omitempty"`
}

// CharacterHandler handles character build and read requests.
type CharacterHandler struct {
	deps     CharacterDependencies
	maxLimit int
}

// NewCharacterHandler creates a new character handler.
func NewCharacterHandler(deps CharacterDependencies, maxLimit int) *CharacterHandler {
	return &CharacterHandler{deps: deps, maxLimit: maxLimit}
}

// HandleCharacters handles POST and GET /characters.
func (h *CharacterHandler) HandleCharacters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CharacterHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_character"
	var req characterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	id, err := h.deps.Enqueue(r.Context(), model.BuildRequest{
		RequestID:   req.RequestID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RequestID)
		if errors.Is(err, queue.ErrFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", CharacterID: id})
}

func (h *CharacterHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_characters"
	n, err := parseLimit(r, defaultListLimit, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	list, err := h.deps.Characters(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if list == nil {
		list = []model.Character{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCharacter handles GET and DELETE /characters/{id}.
func (h *CharacterHandler) HandleCharacter(w http.ResponseWriter, r *http.Request) {
	const op = "api.character"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.deps.Character(r.Context(), id)
		if err != nil {
			writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := h.deps.DeleteCharacter(r.Context(), id); err != nil {
			writeLookupError(w, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func writeLookupError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}
