// Package types contains common types used across the application
package types

import "github.com/okian/matchboard/internal/domain/scoring"

// Match is one ranked row of the match list.
type Match struct {
	Rank          int                 `json:"rank"`
	ProjectID     string              `json:"project_id"`
	Title         string              `json:"title"`
	Score         int                 `json:"score"`
	Keyword       int                 `json:"keyword"`
	Role          int                 `json:"role"`
	Affiliation   int                 `json:"affiliation"`
	Trait         int                 `json:"trait"`
	Closeness     float64             `json:"closeness"`
	TraitSource   scoring.TraitSource `json:"trait_source"`
	MatchedSkills []string            `json:"matched_skills,omitempty"`
}

// NewMatch flattens a scoring result into a ranked row.
func NewMatch(rank int, projectID, title string, r scoring.Result) Match {
	return Match{
		Rank:          rank,
		ProjectID:     projectID,
		Title:         title,
		Score:         r.Score,
		Keyword:       r.Breakdown.Keyword,
		Role:          r.Breakdown.Role,
		Affiliation:   r.Breakdown.Affiliation,
		Trait:         r.Breakdown.Trait,
		Closeness:     r.Breakdown.Closeness,
		TraitSource:   r.Breakdown.TraitSource,
		MatchedSkills: r.Breakdown.MatchedSkills,
	}
}

// ImportPreview summarizes a bundle before it is applied.
type ImportPreview struct {
	Projects      int      `json:"projects"`
	ProjectTitles []string `json:"project_titles"`
	HasProfile    bool     `json:"has_profile"`
	ProfileName   string   `json:"profile_name,omitempty"`
	ProfileTraits int      `json:"profile_traits"`
	Courses       int      `json:"courses"`
	CourseTitles  []string `json:"course_titles"`
}

// Stats is the board summary reported by /stats.
type Stats struct {
	Projects   int    `json:"projects"`
	Favorites  int    `json:"favorites"`
	Joiners    int    `json:"joiners"`
	Courses    int    `json:"courses"`
	HasProfile bool   `json:"has_profile"`
	Store      string `json:"store"`
}
