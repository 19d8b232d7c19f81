// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchboard/internal/domain/types"
)

// MatchesDependencies defines the interface for match ranking.
type MatchesDependencies interface {
	Matches(ctx context.Context) ([]types.Match, error)
}

// MatchesHandler handles match requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatches handles GET /matches.
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	ms, err := h.deps.Matches(r.Context())
	if err != nil {
		writeError(w, Wrap("api.matches", err))
		return
	}
	writeJSON(w, http.StatusOK, ms)
}
