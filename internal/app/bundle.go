package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
	"github.com/okian/matchboard/pkg/metrics"
)

// Import modes.
const (
	ModeOverwrite = "overwrite"
	ModeMerge     = "merge"
)

const previewTitles = 6

// Export returns every section of the board.
func (s *Service) Export(ctx context.Context) (model.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.catalog.Projects(ctx)
	if err != nil {
		return model.Bundle{}, err
	}
	pf, err := s.catalog.Profile(ctx)
	if err != nil {
		return model.Bundle{}, err
	}
	cs, err := s.coursesLocked(ctx)
	if err != nil {
		return model.Bundle{}, err
	}

	metrics.RecordExport()
	s.log().Info(ctx, "board exported", logger.Int("projects", len(ps)))
	return model.Bundle{
		Projects:   ps,
		Profile:    pf,
		Courses:    cs,
		ExportedAt: s.now().UTC(),
	}, nil
}

// PreviewImport summarizes b without applying it.
func (s *Service) PreviewImport(b model.Bundle) (types.ImportPreview, error) {
	if b.Empty() {
		return types.ImportPreview{}, ErrEmptyBundle
	}
	pv := types.ImportPreview{
		Projects:      len(b.Projects),
		ProjectTitles: []string{},
		Courses:       len(b.Courses),
		CourseTitles:  []string{},
		HasProfile:    b.Profile != nil,
	}
	for _, p := range b.Projects[:min(len(b.Projects), previewTitles)] {
		pv.ProjectTitles = append(pv.ProjectTitles, orUntitled(p.Title))
	}
	for _, c := range b.Courses[:min(len(b.Courses), previewTitles)] {
		pv.CourseTitles = append(pv.CourseTitles, orUntitled(c.Title))
	}
	if b.Profile != nil {
		pv.ProfileName = b.Profile.Name
		if pv.ProfileName == "" {
			pv.ProfileName = "(no name)"
		}
		pv.ProfileTraits = b.Profile.Traits.Len()
	}
	return pv, nil
}

func orUntitled(s string) string {
	if s == "" {
		return "(untitled)"
	}
	return s
}

// Import applies the present sections of b. Overwrite replaces each present
// section; merge puts imported projects before the existing ones and
// replaces profile and courses. Sections are written one at a time.
func (s *Service) Import(ctx context.Context, b model.Bundle, mode string) (err error) {
	defer func() { record("import", err) }()

	if mode == "" {
		mode = ModeOverwrite
	}
	if mode != ModeOverwrite && mode != ModeMerge {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if b.Empty() {
		return ErrEmptyBundle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Projects != nil {
		ps := b.Projects
		if mode == ModeMerge {
			existing, err := s.catalog.Projects(ctx)
			if err != nil {
				return err
			}
			ps = slices.Concat(b.Projects, existing)
		}
		if err := s.catalog.SaveProjects(ctx, ps); err != nil {
			return err
		}
	}
	if b.Profile != nil {
		if err := s.catalog.SaveProfile(ctx, b.Profile); err != nil {
			return err
		}
	}
	if b.Courses != nil {
		if err := s.catalog.SaveCourses(ctx, b.Courses); err != nil {
			return err
		}
	}

	metrics.RecordImport(mode)
	s.log().Info(ctx, "bundle imported",
		logger.String("mode", mode),
		logger.Int("projects", len(b.Projects)),
		logger.Bool("profile", b.Profile != nil),
		logger.Int("courses", len(b.Courses)),
	)
	return nil
}
