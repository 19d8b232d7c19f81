// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchboard/internal/domain/model"
)

// ProfileDependencies defines the profile operations used by the handler.
type ProfileDependencies interface {
	Profile(ctx context.Context) (model.Profile, error)
	SaveProfile(ctx context.Context, pf model.Profile) (model.Profile, error)
	ClearProfile(ctx context.Context) error
	SavePersonality(ctx context.Context, answers map[string]int) (model.Profile, error)
	ClearPersonality(ctx context.Context) (bool, error)
	ProfileRadar(ctx context.Context, size float64) (string, error)
}

// ProfileHandler handles the /profile routes.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

type personalityRequest struct {
	Answers map[string]int `json:"answers"`
}

type clearedResponse struct {
	Cleared bool `json:"cleared"`
}

// HandleGet handles GET /profile.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pf, err := h.deps.Profile(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_profile", err))
		return
	}
	writeJSON(w, http.StatusOK, pf)
}

// HandleSave handles PUT /profile.
func (h *ProfileHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_profile"
	var pf model.Profile
	if err := decodeJSON(w, r, op, &pf); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.deps.SaveProfile(r.Context(), pf)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleClear handles DELETE /profile.
func (h *ProfileHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearProfile(r.Context()); err != nil {
		writeError(w, Wrap("api.clear_profile", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSavePersonality handles PUT /profile/personality.
func (h *ProfileHandler) HandleSavePersonality(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_personality"
	var req personalityRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	pf, err := h.deps.SavePersonality(r.Context(), req.Answers)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pf)
}

// HandleClearPersonality handles DELETE /profile/personality.
func (h *ProfileHandler) HandleClearPersonality(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.deps.ClearPersonality(r.Context())
	if err != nil {
		writeError(w, Wrap("api.clear_personality", err))
		return
	}
	writeJSON(w, http.StatusOK, clearedResponse{Cleared: cleared})
}

// HandleRadar handles GET /profile/radar.svg.
func (h *ProfileHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile_radar"
	size, err := sizeParam(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	svg, err := h.deps.ProfileRadar(r.Context(), size)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeSVG(w, svg)
}
