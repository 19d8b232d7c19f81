// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/matchboard/internal/domain/traits"
)

// Project is a submitted paper or idea.
// JSON names follow the export bundle format.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Authors     string     `json:"authors,omitempty"`
	Institution string     `json:"institution,omitempty"`
	Abstract    string     `json:"abstract,omitempty"`
	Advantages  []string   `json:"advantages"`
	Traits      traits.Raw `json:"traits,omitzero"` // declared 1..5 levels, optional
	Stage       string     `json:"stage,omitempty"`
	OwnerName   string     `json:"ownerName,omitempty"`
	OwnerEmail  string     `json:"ownerEmail,omitempty"`
	Joiners     []Joiner   `json:"joiners"`
	Favorite    bool       `json:"favorite"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   time.Time  `json:"updatedAt,omitzero"`
}

// HasJoiner reports whether a joiner with email is already present.
func (p Project) HasJoiner(email string) bool {
	for _, j := range p.Joiners {
		if j.Email == email {
			return true
		}
	}
	return false
}

// LastModified returns UpdatedAt, falling back to CreatedAt.
func (p Project) LastModified() time.Time {
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// ProjectInput carries the editable fields of a save request. Nil slices and
// pointers mean "not provided" so existing values survive an update.
type ProjectInput struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Authors     string     `json:"authors,omitempty"`
	Institution string     `json:"institution,omitempty"`
	Abstract    string     `json:"abstract,omitempty"`
	Advantages  []string   `json:"advantages,omitempty"`
	Traits      traits.Raw `json:"traits,omitzero"`
	Stage       string     `json:"stage,omitempty"`
	OwnerName   string     `json:"ownerName,omitempty"`
	OwnerEmail  string     `json:"ownerEmail,omitempty"`
	Joiners     []Joiner   `json:"joiners,omitempty"`
	Favorite    *bool      `json:"favorite,omitempty"`
}
