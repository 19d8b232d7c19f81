package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/scoring"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
	"github.com/okian/matchboard/pkg/metrics"
)

// Matches ranks every project against the saved profile by descending score
// and returns the top entries. Ties keep stored order.
func (s *Service) Matches(ctx context.Context) ([]types.Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordMatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.Lock()
	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ps, err := s.catalog.Projects(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if pf == nil {
		return nil, ErrNoProfile
	}

	type scored struct {
		p model.Project
		r scoring.Result
	}
	all := make([]scored, len(ps))
	for i, p := range ps {
		r := s.engine.Score(p, *pf)
		metrics.RecordMatch(r.Score, r.Breakdown.Trait, string(r.Breakdown.TraitSource))
		all[i] = scored{p: p, r: r}
	}
	slices.SortStableFunc(all, func(a, b scored) int {
		return cmp.Compare(b.r.Score, a.r.Score)
	})

	n := min(len(all), s.maxMatches)
	out := make([]types.Match, n)
	for i := range n {
		out[i] = types.NewMatch(i+1, all[i].p.ID, all[i].p.Title, all[i].r)
	}
	s.log().Debug(ctx, "matches computed",
		logger.Int("projects", len(ps)),
		logger.Int("returned", n),
	)
	return out, nil
}

// Score scores a single project against the saved profile.
func (s *Service) Score(ctx context.Context, id string) (types.Match, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return types.Match{}, err
	}
	pf, err := s.Profile(ctx)
	if err != nil {
		return types.Match{}, err
	}
	return types.NewMatch(0, p.ID, p.Title, s.engine.Score(p, pf)), nil
}
