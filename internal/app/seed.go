package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/pkg/logger"
)

// DemoRoles is the role list offered to profiles.
var DemoRoles = []string{
	"Entrepreneur / Founder",
	"Engineer / Technical Lead",
	"Product Manager",
	"Researcher / Academic",
	"Specialist / Advisor",
	"Data Centre Ops",
	"Nuclear Systems Engineer",
}

var demoProjects = []model.Project{
	{
		Title:       "Cold-Climate Data Centre Placement using Cheap Hydro",
		Authors:     "A. Singh (UofT)",
		Institution: "University of Toronto",
		Abstract:    "Optimizing placement of data centres in regions with abundant cheap hydro power to reduce cooling costs and carbon footprint.",
		Advantages:  []string{"Cheap Energy", "Data Centres"},
		Stage:       "Research",
	},
	{
		Title:       "Methane Capture for Grid Stability",
		Authors:     "L. Chen (McGill)",
		Institution: "McGill University",
		Abstract:    "Novel catalytic approach to capture and convert methane emissions into dispatchable energy.",
		Advantages:  []string{"Methane", "Resources"},
		Stage:       "Prototype",
	},
	{
		Title:       "Nuclear Microreactors for Distributed Compute",
		Authors:     "R. Patel (UofT)",
		Institution: "University of Toronto",
		Abstract:    "Design and safety models for small modular reactors powering edge data centres.",
		Advantages:  []string{"Nuclear", "Cheap Energy", "AI / Compute"},
		Stage:       "Idea",
	},
	{
		Title:       "Sustainable Lumber Supply Chains",
		Authors:     "M. Osei (UBC)",
		Institution: "University of British Columbia",
		Abstract:    "Blockchain-backed traceability for lumber supply to support sustainable construction.",
		Advantages:  []string{"Land & Lumber", "Resources"},
		Stage:       "Prototype",
	},
}

// DemoProjects returns the demo projects stamped relative to now: project i
// was created i+1 days ago and updated i+1 hours ago.
func DemoProjects(now time.Time) []model.Project {
	out := make([]model.Project, len(demoProjects))
	for i, p := range demoProjects {
		p.ID = fmt.Sprintf("p_demo_%d", i)
		p.Advantages = append([]string(nil), p.Advantages...)
		p.Joiners = []model.Joiner{}
		p.OwnerEmail = fmt.Sprintf("demo%d@example.com", i)
		p.OwnerName = p.Authors
		if p.OwnerName == "" {
			p.OwnerName = fmt.Sprintf("Demo Author %d", i+1)
		}
		p.CreatedAt = now.Add(-time.Duration(i+1) * 24 * time.Hour)
		p.UpdatedAt = now.Add(-time.Duration(i+1) * time.Hour)
		out[i] = p
	}
	return out
}

// Roles returns the selectable profile roles.
func (s *Service) Roles() []string {
	return append([]string(nil), DemoRoles...)
}

// SeedDemo replaces projects and courses with demo data. Unless force is
// set it refuses with ErrDataExists when projects are already stored. The
// profile is left alone.
func (s *Service) SeedDemo(ctx context.Context, force bool) (err error) {
	defer func() { record("seed", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !force {
		ps, err := s.catalog.Projects(ctx)
		if err != nil {
			return err
		}
		if len(ps) > 0 {
			return ErrDataExists
		}
	}
	if err := s.seedLocked(ctx); err != nil {
		return err
	}
	s.log().Info(ctx, "demo data seeded", logger.Bool("force", force))
	return nil
}

func (s *Service) seedLocked(ctx context.Context) error {
	if err := s.catalog.SaveProjects(ctx, DemoProjects(s.now().UTC())); err != nil {
		return err
	}
	return s.catalog.SaveCourses(ctx, model.SampleCourses())
}
