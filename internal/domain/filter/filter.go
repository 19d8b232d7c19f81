// Package filter selects projects matching a persisted FilterState.
package filter

import (
	"slices"
	"strings"

	"github.com/okian/matchboard/internal/domain/model"
)

// Apply returns the projects matching f, preserving order.
func Apply(projects []model.Project, f model.FilterState) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if Match(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether p passes every active criterion of f. All string
// comparisons are case-insensitive.
func Match(p model.Project, f model.FilterState) bool {
	if f.Favorites && !p.Favorite {
		return false
	}

	if stage := strings.TrimSpace(f.Stage); stage != "" {
		if !strings.EqualFold(p.Stage, stage) {
			return false
		}
	}

	if wanted := lowerAll(f.Advantages); len(wanted) > 0 {
		have := lowerAll(p.Advantages)
		contains := func(a string) bool { return slices.Contains(have, a) }
		if f.Mode() == model.MatchAll {
			if !all(wanted, contains) {
				return false
			}
		} else if !slices.ContainsFunc(wanted, contains) {
			return false
		}
	}

	if text := strings.ToLower(strings.TrimSpace(f.Text)); text != "" {
		return matchText(p, text)
	}
	return true
}

func matchText(p model.Project, text string) bool {
	fields := []string{p.Title, p.Abstract, p.Authors, p.Institution, p.Stage, p.OwnerName, p.OwnerEmail}
	fields = append(fields, p.Advantages...)
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), text) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func all(in []string, pred func(string) bool) bool {
	for _, s := range in {
		if !pred(s) {
			return false
		}
	}
	return true
}
