// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchboard/internal/adapters/feed"
)

// FeedDependencies defines the interface for feed rendering.
type FeedDependencies interface {
	Feed(ctx context.Context, format string) ([]byte, string, error)
}

// FeedHandler serves the project feeds.
type FeedHandler struct {
	deps FeedDependencies
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies) *FeedHandler {
	return &FeedHandler{deps: deps}
}

// HandleJSON handles GET /feed.json.
func (h *FeedHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.FormatJSON)
}

// HandleRSS handles GET /feed.xml.
func (h *FeedHandler) HandleRSS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, feed.FormatRSS)
}

func (h *FeedHandler) serve(w http.ResponseWriter, r *http.Request, format string) {
	body, ct, err := h.deps.Feed(r.Context(), format)
	if err != nil {
		writeError(w, Wrap("api.feed", err))
		return
	}
	w.Header().Set("Content-Type", ct+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
