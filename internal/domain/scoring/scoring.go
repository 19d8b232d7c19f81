// Package scoring computes the heuristic fit between a profile and a project.
//
// The score is the sum of keyword, role and affiliation bonuses plus a trait
// closeness bonus derived from the Euclidean distance between the profile's
// normalized trait vector and the project's (declared or inferred) one.
package scoring

import (
	"math"
	"slices"
	"strings"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/traits"
)

// Default weights.
const (
	DefaultKeywordWeight     = 3
	DefaultRoleWeight        = 2
	DefaultAffiliationWeight = 1
	DefaultTraitBonusMax     = 6
)

// Neutral values used for a dimension missing from one side of a comparison.
const (
	ProfileDefault = 0.5
	ProjectDefault = 0.0
)

// TraitSource records where the project vector came from.
type TraitSource string

// Trait sources.
const (
	SourceNone       TraitSource = "none"
	SourceDeclared   TraitSource = "declared"
	SourceAdvantages TraitSource = "advantages"
)

// Weights are the per-signal score contributions.
type Weights struct {
	Keyword       int `json:"keyword"`
	Role          int `json:"role"`
	Affiliation   int `json:"affiliation"`
	TraitBonusMax int `json:"trait_bonus_max"`
}

// DefaultWeights returns 3/2/1/6.
func DefaultWeights() Weights {
	return Weights{
		Keyword:       DefaultKeywordWeight,
		Role:          DefaultRoleWeight,
		Affiliation:   DefaultAffiliationWeight,
		TraitBonusMax: DefaultTraitBonusMax,
	}
}

// Breakdown itemizes a score.
type Breakdown struct {
	Keyword       int         `json:"keyword"`
	Role          int         `json:"role"`
	Affiliation   int         `json:"affiliation"`
	Trait         int         `json:"trait"`
	Closeness     float64     `json:"closeness"`
	TraitSource   TraitSource `json:"trait_source"`
	MatchedSkills []string    `json:"matched_skills,omitempty"`
}

// Result is a computed score with its breakdown.
type Result struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the signal weights. Negative weights are ignored.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Keyword >= 0 {
			e.weights.Keyword = w.Keyword
		}
		if w.Role >= 0 {
			e.weights.Role = w.Role
		}
		if w.Affiliation >= 0 {
			e.weights.Affiliation = w.Affiliation
		}
		if w.TraitBonusMax >= 0 {
			e.weights.TraitBonusMax = w.TraitBonusMax
		}
	}
}

// WithAdvantageTable replaces the advantage fallback table.
func WithAdvantageTable(t AdvantageTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.advantages = t
		}
	}
}

// Engine scores profile/project pairs. It is immutable after construction
// and safe for concurrent use.
type Engine struct {
	weights    Weights
	advantages AdvantageTable
}

// NewEngine creates an engine with default weights and the built-in
// advantage table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:    DefaultWeights(),
		advantages: DefaultAdvantageTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the engine's weights.
func (e *Engine) Weights() Weights { return e.weights }

var defaultEngine = NewEngine()

// Score scores with the default engine.
func Score(p model.Project, pf model.Profile) Result {
	return defaultEngine.Score(p, pf)
}

// ProjectVector returns the default engine's project vector.
func ProjectVector(p model.Project) (traits.Normalized, TraitSource) {
	return defaultEngine.ProjectVector(p)
}

// Score computes the fit of pf for p. It never fails; sparse input just
// yields a lower score.
func (e *Engine) Score(p model.Project, pf model.Profile) Result {
	var b Breakdown
	b.TraitSource = SourceNone

	haystack := strings.ToLower(p.Title + " " + p.Abstract + " " + strings.Join(p.Advantages, " "))
	for _, skill := range pf.Skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(haystack, s) {
			b.Keyword += e.weights.Keyword
			b.MatchedSkills = append(b.MatchedSkills, skill)
		}
	}

	if pf.Role != "" && slices.Contains(p.Advantages, pf.Role) {
		b.Role = e.weights.Role
	}

	if p.Institution != "" && pf.Affiliation != "" &&
		strings.Contains(strings.ToLower(p.Institution), strings.ToLower(pf.Affiliation)) {
		b.Affiliation = e.weights.Affiliation
	}

	if user, ok := pf.NormalizedTraits(); ok {
		proj, src := e.ProjectVector(p)
		if src != SourceNone {
			b.TraitSource = src
			b.Closeness = Closeness(user, proj)
			b.Trait = int(math.Round(b.Closeness * float64(e.weights.TraitBonusMax)))
		}
	}

	return Result{
		Score:     b.Keyword + b.Role + b.Affiliation + b.Trait,
		Breakdown: b,
	}
}

// ProjectVector returns the project's normalized trait vector: its declared
// traits when present, otherwise the advantage-derived proxy. The source is
// SourceNone when neither yields any dimension.
func (e *Engine) ProjectVector(p model.Project) (traits.Normalized, TraitSource) {
	if !p.Traits.IsZero() {
		return traits.Normalize(p.Traits), SourceDeclared
	}
	if v, ok := e.advantages.Infer(p.Advantages); ok {
		return v, SourceAdvantages
	}
	return traits.Normalized{}, SourceNone
}

// Closeness returns 1 - min(dist/sqrt(n), 1) over the union of dimensions
// present in either vector, clamped to [0,1]. Missing profile dimensions
// count as ProfileDefault and missing project dimensions as ProjectDefault.
func Closeness(profile, project traits.Normalized) float64 {
	var sumSq float64
	n := 0
	for _, t := range traits.All() {
		if !profile.Has(t) && !project.Has(t) {
			continue
		}
		n++
		d := profile.ValueOr(t, ProfileDefault) - project.ValueOr(t, ProjectDefault)
		sumSq += d * d
	}
	if n == 0 {
		return 0
	}
	c := 1 - math.Min(math.Sqrt(sumSq)/math.Sqrt(float64(n)), 1)
	return math.Max(0, math.Min(1, c))
}
