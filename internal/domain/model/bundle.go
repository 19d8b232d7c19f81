package model

import "time"

// Bundle is the export/import document. A section that is null or absent
// decodes to nil and is not imported.
type Bundle struct {
	Projects   []Project `json:"projects"`
	Profile    *Profile  `json:"profile"`
	Courses    []Course  `json:"courses"`
	ExportedAt time.Time `json:"exportedAt,omitzero"`
}

// Empty reports whether the bundle has no importable section.
func (b Bundle) Empty() bool {
	return b.Projects == nil && b.Profile == nil && b.Courses == nil
}

// Advantage match modes for FilterState.
const (
	MatchAny = "any"
	MatchAll = "all"
)

// FilterState is the persisted project list filter.
type FilterState struct {
	Text         string   `json:"text"`
	Stage        string   `json:"stage"`
	Advantages   []string `json:"advantages"`
	AdvMatchMode string   `json:"advMatchMode"`
	Favorites    bool     `json:"favorites"`
}

// Mode returns AdvMatchMode, defaulting to MatchAny.
func (f FilterState) Mode() string {
	if f.AdvMatchMode == MatchAll {
		return MatchAll
	}
	return MatchAny
}
