// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/traits"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
)

var errEmptyBody = errors.New("empty body")

// maxBodyBytes bounds request bodies, including import bundles.
const maxBodyBytes = 8 << 20

// Board is the set of board operations the handlers call. The board
// service satisfies it.
type Board interface {
	GetStats(ctx context.Context) (types.Stats, error)

	ListProjects(ctx context.Context, f model.FilterState) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	SaveProject(ctx context.Context, in model.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	JoinProject(ctx context.Context, id string) (model.Project, error)
	RemoveJoiner(ctx context.Context, id, email string) (model.Project, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)

	Profile(ctx context.Context) (model.Profile, error)
	SaveProfile(ctx context.Context, pf model.Profile) (model.Profile, error)
	ClearProfile(ctx context.Context) error
	SavePersonality(ctx context.Context, answers map[string]int) (model.Profile, error)
	ClearPersonality(ctx context.Context) (bool, error)
	Questions() []traits.Question
	Roles() []string

	Courses(ctx context.Context) ([]model.Course, error)
	EnrollCourse(ctx context.Context, id string) (model.Course, error)
	Filters(ctx context.Context) (model.FilterState, error)
	SaveFilters(ctx context.Context, f model.FilterState) (model.FilterState, error)

	Matches(ctx context.Context) ([]types.Match, error)
	SeedDemo(ctx context.Context, force bool) error

	Export(ctx context.Context) (model.Bundle, error)
	PreviewImport(b model.Bundle) (types.ImportPreview, error)
	Import(ctx context.Context, b model.Bundle, mode string) error

	Feed(ctx context.Context, format string) ([]byte, string, error)
	ProfileRadar(ctx context.Context, size float64) (string, error)
	ProjectRadar(ctx context.Context, id string, size float64) (string, error)
	OverlayRadar(ctx context.Context, id string, size float64) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	projectsHandler *ProjectsHandler
	profileHandler  *ProfileHandler
	catalogHandler  *CatalogHandler
	matchesHandler  *MatchesHandler
	bundleHandler   *BundleHandler
	feedHandler     *FeedHandler
	logger          logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(board Board, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(board),
		projectsHandler: NewProjectsHandler(board),
		profileHandler:  NewProfileHandler(board),
		catalogHandler:  NewCatalogHandler(board),
		matchesHandler:  NewMatchesHandler(board),
		bundleHandler:   NewBundleHandler(board),
		feedHandler:     NewFeedHandler(board),
		logger:          log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	h := func(pattern, endpoint string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequestID(s.logger, MetricsMiddleware(fn, endpoint)))
	}

	h("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	h("GET /stats", "stats", s.statsHandler.HandleStats)

	p := s.projectsHandler
	h("GET /projects", "projects", p.HandleList)
	h("POST /projects", "projects", p.HandleCreate)
	h("GET /projects/{id}", "project", p.HandleGet)
	h("PUT /projects/{id}", "project", p.HandleUpdate)
	h("DELETE /projects/{id}", "project", p.HandleDelete)
	h("POST /projects/{id}/join", "project_join", p.HandleJoin)
	h("DELETE /projects/{id}/joiners/{email}", "project_joiner", p.HandleRemoveJoiner)
	h("POST /projects/{id}/favorite", "project_favorite", p.HandleFavorite)
	h("GET /projects/{id}/radar.svg", "project_radar", p.HandleRadar)
	h("GET /projects/{id}/overlay.svg", "project_overlay", p.HandleOverlay)

	pf := s.profileHandler
	h("GET /profile", "profile", pf.HandleGet)
	h("PUT /profile", "profile", pf.HandleSave)
	h("DELETE /profile", "profile", pf.HandleClear)
	h("PUT /profile/personality", "personality", pf.HandleSavePersonality)
	h("DELETE /profile/personality", "personality", pf.HandleClearPersonality)
	h("GET /profile/radar.svg", "profile_radar", pf.HandleRadar)

	c := s.catalogHandler
	h("GET /questions", "questions", c.HandleQuestions)
	h("GET /roles", "roles", c.HandleRoles)
	h("GET /courses", "courses", c.HandleCourses)
	h("POST /courses/{id}/enroll", "course_enroll", c.HandleEnroll)
	h("GET /filters", "filters", c.HandleGetFilters)
	h("PUT /filters", "filters", c.HandleSaveFilters)

	h("GET /matches", "matches", s.matchesHandler.HandleMatches)

	b := s.bundleHandler
	h("POST /seed", "seed", b.HandleSeed)
	h("GET /export", "export", b.HandleExport)
	h("POST /import", "import", b.HandleImport)
	h("POST /import/preview", "import_preview", b.HandlePreview)

	h("GET /feed.json", "feed", s.feedHandler.HandleJSON)
	h("GET /feed.xml", "feed", s.feedHandler.HandleRSS)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes the JSON error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, svg)
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields are allowed
// so older clients keep working.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return WrapKind(op, ErrBadRequest, errEmptyBody)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
