package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/matchboard/internal/domain/filter"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/pkg/logger"
)

// ValidateProject checks a submission against the form rules: a title is
// required and at most MaxAdvantages tags are allowed. Imports bypass it.
func (s *Service) ValidateProject(in model.ProjectInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(in.Advantages) > s.maxAdvantages {
		return fmt.Errorf("%w: at most %d advantages", ErrInvalidInput, s.maxAdvantages)
	}
	return nil
}

// SaveProject creates or updates a project.
//
// Without an id a new project is created with a generated id, empty joiners
// and the saved profile as owner unless one is given; it is prepended. With
// an id that exists, the project is replaced in place while joiners, owner,
// favorite and createdAt survive when the input omits them. An unknown id is
// prepended as given. updatedAt is always set to now.
func (s *Service) SaveProject(ctx context.Context, in model.ProjectInput) (p model.Project, err error) {
	defer func() { record("save_project", err) }()
	if err := s.ValidateProject(in); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	now := s.now().UTC()

	p = model.Project{
		ID:          in.ID,
		Title:       strings.TrimSpace(in.Title),
		Authors:     in.Authors,
		Institution: in.Institution,
		Abstract:    in.Abstract,
		Advantages:  in.Advantages,
		Traits:      in.Traits,
		Stage:       in.Stage,
		OwnerName:   in.OwnerName,
		OwnerEmail:  in.OwnerEmail,
		Joiners:     in.Joiners,
	}
	if in.Favorite != nil {
		p.Favorite = *in.Favorite
	}
	if p.Advantages == nil {
		p.Advantages = []string{}
	}

	idx := -1
	if in.ID != "" {
		idx = findProject(ps, in.ID)
	}
	created := in.ID == ""
	switch {
	case created:
		if p.ID, err = s.newID(); err != nil {
			return model.Project{}, err
		}
		p.CreatedAt = now
		if p.OwnerEmail == "" && p.OwnerName == "" {
			pf, err := s.catalog.Profile(ctx)
			if err != nil {
				return model.Project{}, err
			}
			if pf != nil {
				p.OwnerName, p.OwnerEmail = pf.Name, pf.Email
			}
		}
	case idx >= 0:
		old := ps[idx]
		if p.Joiners == nil {
			p.Joiners = old.Joiners
		}
		if p.OwnerEmail == "" {
			p.OwnerEmail = old.OwnerEmail
		}
		if p.OwnerName == "" {
			p.OwnerName = old.OwnerName
		}
		if in.Favorite == nil {
			p.Favorite = old.Favorite
		}
		p.CreatedAt = old.CreatedAt
	}

	if p.Joiners == nil {
		p.Joiners = []model.Joiner{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if idx >= 0 {
		ps[idx] = p
	} else {
		ps = slices.Insert(ps, 0, p)
	}

	if err := s.catalog.SaveProjects(ctx, ps); err != nil {
		return model.Project{}, err
	}
	s.log().Info(ctx, "project saved",
		logger.String("id", p.ID),
		logger.Bool("created", created),
		logger.Int("advantages", len(p.Advantages)),
	)
	return p, nil
}

// GetProject returns the project with id.
func (s *Service) GetProject(ctx context.Context, id string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	idx := findProject(ps, id)
	if idx < 0 {
		return model.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return ps[idx], nil
}

// ListProjects returns the projects matching f in stored order.
func (s *Service) ListProjects(ctx context.Context, f model.FilterState) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return nil, err
	}
	out := filter.Apply(ps, f)
	s.log().Debug(ctx, "projects listed", logger.Int("total", len(ps)), logger.Int("matched", len(out)))
	return out, nil
}

// DeleteProject removes the project with id.
func (s *Service) DeleteProject(ctx context.Context, id string) (err error) {
	defer func() { record("delete_project", err) }()
	return s.mutateProjects(ctx, func(ps []model.Project) ([]model.Project, error) {
		idx := findProject(ps, id)
		if idx < 0 {
			return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		s.log().Info(ctx, "project deleted", logger.String("id", id))
		return slices.Delete(ps, idx, idx+1), nil
	})
}

// JoinProject adds the saved profile as a joiner of project id. Joining
// twice with the same email is a no-op.
func (s *Service) JoinProject(ctx context.Context, id string) (p model.Project, err error) {
	defer func() { record("join_project", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return model.Project{}, err
	}
	if pf == nil {
		return model.Project{}, ErrNoProfile
	}

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	idx := findProject(ps, id)
	if idx < 0 {
		return model.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if ps[idx].HasJoiner(pf.Email) {
		return ps[idx], nil
	}
	ps[idx].Joiners = append(ps[idx].Joiners, *pf)
	if err := s.catalog.SaveProjects(ctx, ps); err != nil {
		return model.Project{}, err
	}
	s.log().Info(ctx, "project joined",
		logger.String("id", id),
		logger.Int("joiners", len(ps[idx].Joiners)),
	)
	return ps[idx], nil
}

// RemoveJoiner drops the joiner with email from project id.
func (s *Service) RemoveJoiner(ctx context.Context, id, email string) (p model.Project, err error) {
	defer func() { record("remove_joiner", err) }()
	err = s.mutateProjects(ctx, func(ps []model.Project) ([]model.Project, error) {
		idx := findProject(ps, id)
		if idx < 0 {
			return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		ps[idx].Joiners = slices.DeleteFunc(ps[idx].Joiners, func(j model.Joiner) bool {
			return j.Email == email
		})
		p = ps[idx]
		return ps, nil
	})
	return p, err
}

// ToggleFavorite flips the favorite flag of project id and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (fav bool, err error) {
	defer func() { record("toggle_favorite", err) }()
	err = s.mutateProjects(ctx, func(ps []model.Project) ([]model.Project, error) {
		idx := findProject(ps, id)
		if idx < 0 {
			return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		ps[idx].Favorite = !ps[idx].Favorite
		fav = ps[idx].Favorite
		return ps, nil
	})
	return fav, err
}

func (s *Service) mutateProjects(ctx context.Context, fn func([]model.Project) ([]model.Project, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return err
	}
	ps, err = fn(ps)
	if err != nil {
		return err
	}
	return s.catalog.SaveProjects(ctx, ps)
}
