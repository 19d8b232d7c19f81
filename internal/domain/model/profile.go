package model

import "github.com/okian/matchboard/internal/domain/traits"

// Profile is the single local user. Email is its identity key.
type Profile struct {
	Name               string            `json:"name"`
	Email              string            `json:"email"`
	Role               string            `json:"role"`
	Skills             []string          `json:"skills"`
	Affiliation        string            `json:"affiliation,omitempty"`
	PersonalityAnswers map[string]int    `json:"personalityAnswers,omitempty"`
	Traits             traits.Raw        `json:"traits,omitzero"`
	TraitNormalized    traits.Normalized `json:"traitNormalized,omitzero"`
	Courses            []string          `json:"courses,omitempty"`
}

// Joiner is a snapshot of a Profile taken when it joined a project.
type Joiner = Profile

// DefaultRole is used when a profile is created implicitly.
const DefaultRole = "Entrepreneur / Founder"

// NormalizedTraits returns the profile's 0..1 trait vector, preferring the
// stored normalized values and otherwise deriving them from raw averages.
// ok is false when the profile carries no trait data.
func (pf Profile) NormalizedTraits() (traits.Normalized, bool) {
	if !pf.TraitNormalized.IsZero() {
		return pf.TraitNormalized, true
	}
	if !pf.Traits.IsZero() {
		return traits.Normalize(pf.Traits), true
	}
	return traits.Normalized{}, false
}

// ApplyAssessment stores questionnaire results on the profile.
func (pf *Profile) ApplyAssessment(a traits.Assessment) {
	pf.PersonalityAnswers = a.Answers
	pf.Traits = a.Averages
	pf.TraitNormalized = a.Normalized
}

// ClearPersonality drops answers and both trait vectors.
// It reports whether anything was removed.
func (pf *Profile) ClearPersonality() bool {
	had := len(pf.PersonalityAnswers) > 0 || !pf.Traits.IsZero() || !pf.TraitNormalized.IsZero()
	pf.PersonalityAnswers = nil
	pf.Traits = traits.Raw{}
	pf.TraitNormalized = traits.Normalized{}
	return had
}

// Enrolled reports whether the profile is enrolled in course id.
func (pf Profile) Enrolled(id string) bool {
	for _, c := range pf.Courses {
		if c == id {
			return true
		}
	}
	return false
}
