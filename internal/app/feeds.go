package service

import (
	"context"

	"github.com/okian/matchboard/internal/domain/radar"
	"github.com/okian/matchboard/pkg/metrics"
)

// Feed renders the project list in format ("json" or "rss") and returns
// the document with its content type.
func (s *Service) Feed(ctx context.Context, format string) ([]byte, string, error) {
	s.mu.Lock()
	ps, err := s.catalog.Projects(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, "", err
	}

	b, ct, err := s.feeds.Render(format, ps)
	if err != nil {
		return nil, "", err
	}
	metrics.RecordFeedRender(format)
	return b, ct, nil
}

// ProfileRadar renders the saved profile's trait radar.
func (s *Service) ProfileRadar(ctx context.Context, size float64) (string, error) {
	pf, err := s.Profile(ctx)
	if err != nil {
		return "", err
	}
	v, _ := pf.NormalizedTraits()
	return radar.SVG(v, sizeOr(size, radar.DefaultSize), true), nil
}

// ProjectRadar renders a project's declared or inferred trait radar.
func (s *Service) ProjectRadar(ctx context.Context, id string, size float64) (string, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	v, _ := s.engine.ProjectVector(p)
	return radar.SVG(v, sizeOr(size, radar.DefaultSize), true), nil
}

// OverlayRadar renders the saved profile over project id on shared axes.
func (s *Service) OverlayRadar(ctx context.Context, id string, size float64) (string, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	pf, err := s.Profile(ctx)
	if err != nil {
		return "", err
	}
	user, _ := pf.NormalizedTraits()
	proj, _ := s.engine.ProjectVector(p)
	return radar.OverlaySVG(user, proj, sizeOr(size, radar.DefaultOverlaySize)), nil
}

func sizeOr(size, def float64) float64 {
	if size <= 0 {
		return def
	}
	return size
}
