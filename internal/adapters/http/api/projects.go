// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/matchboard/internal/domain/model"
)

// ProjectsDependencies defines the project operations used by the handler.
type ProjectsDependencies interface {
	ListProjects(ctx context.Context, f model.FilterState) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	SaveProject(ctx context.Context, in model.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	JoinProject(ctx context.Context, id string) (model.Project, error)
	RemoveJoiner(ctx context.Context, id, email string) (model.Project, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Filters(ctx context.Context) (model.FilterState, error)
	ProjectRadar(ctx context.Context, id string, size float64) (string, error)
	OverlayRadar(ctx context.Context, id string, size float64) (string, error)
}

// ProjectsHandler handles the /projects routes.
type ProjectsHandler struct {
	deps ProjectsDependencies
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps ProjectsDependencies) *ProjectsHandler {
	return &ProjectsHandler{deps: deps}
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// HandleList handles GET /projects. Query parameters text, stage,
// advantage (repeatable), mode and favorites narrow the list; saved=true
// applies the persisted filter instead.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_projects"
	q := r.URL.Query()

	var f model.FilterState
	if b, _ := strconv.ParseBool(q.Get("saved")); b {
		saved, err := h.deps.Filters(r.Context())
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		f = saved
	} else {
		parsed, err := filterFromQuery(q)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		f = parsed
	}

	ps, err := h.deps.ListProjects(r.Context(), f)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func filterFromQuery(q url.Values) (model.FilterState, error) {
	f := model.FilterState{
		Text:         q.Get("text"),
		Stage:        q.Get("stage"),
		AdvMatchMode: q.Get("mode"),
	}
	for _, a := range q["advantage"] {
		if a = strings.TrimSpace(a); a != "" {
			f.Advantages = append(f.Advantages, a)
		}
	}
	if v := q.Get("favorites"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return model.FilterState{}, err
		}
		f.Favorites = b
	}
	return f, nil
}

// HandleCreate handles POST /projects.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_project"
	var in model.ProjectInput
	if err := decodeJSON(w, r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	in.ID = ""
	p, err := h.deps.SaveProject(r.Context(), in)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /projects/{id}.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap("api.get_project", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /projects/{id}. The path id wins over any id in
// the body.
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_project"
	var in model.ProjectInput
	if err := decodeJSON(w, r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	in.ID = r.PathValue("id")
	p, err := h.deps.SaveProject(r.Context(), in)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /projects/{id}.
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, Wrap("api.delete_project", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleJoin handles POST /projects/{id}/join.
func (h *ProjectsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.JoinProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap("api.join_project", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleRemoveJoiner handles DELETE /projects/{id}/joiners/{email}.
func (h *ProjectsHandler) HandleRemoveJoiner(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.RemoveJoiner(r.Context(), r.PathValue("id"), r.PathValue("email"))
	if err != nil {
		writeError(w, Wrap("api.remove_joiner", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleFavorite handles POST /projects/{id}/favorite.
func (h *ProjectsHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fav, err := h.deps.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, Wrap("api.toggle_favorite", err))
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{ID: id, Favorite: fav})
}

// HandleRadar handles GET /projects/{id}/radar.svg.
func (h *ProjectsHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	const op = "api.project_radar"
	size, err := sizeParam(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	svg, err := h.deps.ProjectRadar(r.Context(), r.PathValue("id"), size)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeSVG(w, svg)
}

// HandleOverlay handles GET /projects/{id}/overlay.svg.
func (h *ProjectsHandler) HandleOverlay(w http.ResponseWriter, r *http.Request) {
	const op = "api.project_overlay"
	size, err := sizeParam(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	svg, err := h.deps.OverlayRadar(r.Context(), r.PathValue("id"), size)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeSVG(w, svg)
}

// sizeParam parses the optional size query parameter; 0 selects the default.
func sizeParam(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("size")
	if v == "" {
		return 0, nil
	}
	size, err := strconv.ParseFloat(v, 64)
	if err != nil || size < 0 {
		return 0, ErrBadRequest
	}
	return size, nil
}
