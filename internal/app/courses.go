package service

import (
	"context"
	"fmt"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/pkg/logger"
)

// Courses returns the course catalog, seeding the sample courses the first
// time it is read.
func (s *Service) Courses(ctx context.Context) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coursesLocked(ctx)
}

func (s *Service) coursesLocked(ctx context.Context) ([]model.Course, error) {
	cs, found, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return cs, nil
	}
	cs = model.SampleCourses()
	if err := s.catalog.SaveCourses(ctx, cs); err != nil {
		return nil, err
	}
	s.log().Debug(ctx, "course catalog seeded", logger.Int("courses", len(cs)))
	return cs, nil
}

// EnrollCourse adds course id to the saved profile. Enrolling twice is a
// no-op.
func (s *Service) EnrollCourse(ctx context.Context, id string) (c model.Course, err error) {
	defer func() { record("enroll_course", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.coursesLocked(ctx)
	if err != nil {
		return model.Course{}, err
	}
	idx := -1
	for i := range cs {
		if cs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Course{}, fmt.Errorf("course %q: %w", id, ErrNotFound)
	}

	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return model.Course{}, err
	}
	if pf == nil {
		return model.Course{}, ErrNoProfile
	}
	if !pf.Enrolled(id) {
		pf.Courses = append(pf.Courses, id)
		if err := s.catalog.SaveProfile(ctx, pf); err != nil {
			return model.Course{}, err
		}
	}
	s.log().Info(ctx, "course enrolled", logger.String("course", id))
	return cs[idx], nil
}

// Filters returns the persisted project filter.
func (s *Service) Filters(ctx context.Context) (model.FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filters(ctx)
}

// SaveFilters persists the project filter.
func (s *Service) SaveFilters(ctx context.Context, f model.FilterState) (model.FilterState, error) {
	f.AdvMatchMode = f.Mode()
	if f.Advantages == nil {
		f.Advantages = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SaveFilters(ctx, f); err != nil {
		return model.FilterState{}, err
	}
	return f, nil
}
