package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/traits"
	"github.com/okian/matchboard/pkg/logger"
)

// Profile returns the saved profile or ErrNoProfile.
func (s *Service) Profile(ctx context.Context) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if pf == nil {
		return model.Profile{}, ErrNoProfile
	}
	return *pf, nil
}

// SaveProfile overwrites the profile wholesale. Name and email are required;
// skills are trimmed and blanks dropped.
func (s *Service) SaveProfile(ctx context.Context, pf model.Profile) (out model.Profile, err error) {
	defer func() { record("save_profile", err) }()

	pf.Name = strings.TrimSpace(pf.Name)
	pf.Email = strings.TrimSpace(pf.Email)
	if pf.Name == "" || pf.Email == "" {
		return model.Profile{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	skills := make([]string, 0, len(pf.Skills))
	for _, sk := range pf.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	pf.Skills = skills

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SaveProfile(ctx, &pf); err != nil {
		return model.Profile{}, err
	}
	s.log().Info(ctx, "profile saved",
		logger.String("email", pf.Email),
		logger.Int("skills", len(pf.Skills)),
		logger.Int("traits", pf.Traits.Len()),
	)
	return pf, nil
}

// ClearProfile removes the profile.
func (s *Service) ClearProfile(ctx context.Context) (err error) {
	defer func() { record("clear_profile", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SaveProfile(ctx, nil); err != nil {
		return err
	}
	s.log().Info(ctx, "profile cleared")
	return nil
}

// SavePersonality aggregates questionnaire answers and stores them on the
// profile, creating a blank one if none exists.
func (s *Service) SavePersonality(ctx context.Context, answers map[string]int) (out model.Profile, err error) {
	defer func() { record("save_personality", err) }()

	a, err := traits.Aggregate(answers)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if pf == nil {
		pf = &model.Profile{Role: model.DefaultRole, Skills: []string{}}
	}
	pf.ApplyAssessment(a)
	if err := s.catalog.SaveProfile(ctx, pf); err != nil {
		return model.Profile{}, err
	}
	s.log().Info(ctx, "personality saved",
		logger.Int("answers", len(a.Answers)),
		logger.Int("traits", a.Averages.Len()),
	)
	return *pf, nil
}

// ClearPersonality removes answers and trait vectors from the profile.
// It reports whether anything was removed.
func (s *Service) ClearPersonality(ctx context.Context) (cleared bool, err error) {
	defer func() { record("clear_personality", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	pf, err := s.catalog.Profile(ctx)
	if err != nil || pf == nil {
		return false, err
	}
	if !pf.ClearPersonality() {
		return false, nil
	}
	if err := s.catalog.SaveProfile(ctx, pf); err != nil {
		return false, err
	}
	s.log().Info(ctx, "personality cleared")
	return true, nil
}

// Questions returns the questionnaire.
func (s *Service) Questions() []traits.Question {
	return traits.Questions
}
