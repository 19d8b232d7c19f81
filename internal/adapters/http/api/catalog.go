// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/traits"
)

// CatalogDependencies defines the reference data and filter operations
// used by the handler.
type CatalogDependencies interface {
	Questions() []traits.Question
	Roles() []string
	Courses(ctx context.Context) ([]model.Course, error)
	EnrollCourse(ctx context.Context, id string) (model.Course, error)
	Filters(ctx context.Context) (model.FilterState, error)
	SaveFilters(ctx context.Context, f model.FilterState) (model.FilterState, error)
}

// CatalogHandler serves questions, roles, courses and the saved filter.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleQuestions handles GET /questions.
func (h *CatalogHandler) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Questions())
}

// HandleRoles handles GET /roles.
func (h *CatalogHandler) HandleRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Roles())
}

// HandleCourses handles GET /courses.
func (h *CatalogHandler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	cs, err := h.deps.Courses(r.Context())
	if err != nil {
		writeError(w, Wrap("api.courses", err))
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// HandleEnroll handles POST /courses/{id}/enroll.
func (h *CatalogHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.EnrollCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap("api.enroll_course", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleGetFilters handles GET /filters.
func (h *CatalogHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	f, err := h.deps.Filters(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_filters", err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// HandleSaveFilters handles PUT /filters.
func (h *CatalogHandler) HandleSaveFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_filters"
	var f model.FilterState
	if err := decodeJSON(w, r, op, &f); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.deps.SaveFilters(r.Context(), f)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
