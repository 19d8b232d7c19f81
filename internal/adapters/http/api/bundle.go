// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/types"
)

// ExportFilename is the suggested download name for GET /export.
const ExportFilename = "matchboard-export.json"

// BundleDependencies defines the seed, export and import operations.
type BundleDependencies interface {
	SeedDemo(ctx context.Context, force bool) error
	Export(ctx context.Context) (model.Bundle, error)
	PreviewImport(b model.Bundle) (types.ImportPreview, error)
	Import(ctx context.Context, b model.Bundle, mode string) error
}

// BundleHandler handles seeding, export and import.
type BundleHandler struct {
	deps BundleDependencies
}

// NewBundleHandler creates a new bundle handler.
func NewBundleHandler(deps BundleDependencies) *BundleHandler {
	return &BundleHandler{deps: deps}
}

type statusResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
}

// HandleSeed handles POST /seed?force=true.
func (h *BundleHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.seed"
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		force = b
	}
	if err := h.deps.SeedDemo(r.Context(), force); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "seeded"})
}

// HandleExport handles GET /export as a JSON download.
func (h *BundleHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.Export(r.Context())
	if err != nil {
		writeError(w, Wrap("api.export", err))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	writeJSON(w, http.StatusOK, b)
}

// HandleImport handles POST /import?mode=overwrite|merge.
func (h *BundleHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import"
	var b model.Bundle
	if err := decodeJSON(w, r, op, &b); err != nil {
		writeError(w, err)
		return
	}
	mode := r.URL.Query().Get("mode")
	if err := h.deps.Import(r.Context(), b, mode); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if mode == "" {
		mode = "overwrite"
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "imported", Mode: mode})
}

// HandlePreview handles POST /import/preview.
func (h *BundleHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_preview"
	var b model.Bundle
	if err := decodeJSON(w, r, op, &b); err != nil {
		writeError(w, err)
		return
	}
	pv, err := h.deps.PreviewImport(b)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pv)
}
