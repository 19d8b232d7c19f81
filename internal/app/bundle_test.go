package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	service "github.com/okian/matchboard/internal/app"
	"github.com/okian/matchboard/internal/adapters/feed"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/mmcdole/gofeed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_ExportImport(t *testing.T) {
	Convey("Given a seeded board with an assessed profile", t, func() {
		ctx := context.Background()
		src, _ := newService()
		defer src.Stop()
		So(src.SeedDemo(ctx, false), ShouldBeNil)
		_, err := src.SaveProfile(ctx, model.Profile{Name: "Ada", Email: "ada@example.com", Skills: []string{"nuclear"}})
		So(err, ShouldBeNil)
		_, err = src.SavePersonality(ctx, map[string]int{"q1": 4, "q3": 5, "q6": 2, "q8": 3})
		So(err, ShouldBeNil)

		Convey("When the board is exported through JSON and imported with overwrite", func() {
			b, err := src.Export(ctx)
			So(err, ShouldBeNil)
			So(b.ExportedAt.Equal(t0), ShouldBeTrue)
			data, err := json.Marshal(b)
			So(err, ShouldBeNil)

			var decoded model.Bundle
			So(json.Unmarshal(data, &decoded), ShouldBeNil)

			dst, _ := newService()
			defer dst.Stop()
			So(dst.Import(ctx, decoded, service.ModeOverwrite), ShouldBeNil)

			Convey("Then the profile trait vectors are identical", func() {
				want, _ := src.Profile(ctx)
				got, err := dst.Profile(ctx)
				So(err, ShouldBeNil)
				So(got.Traits, ShouldResemble, want.Traits)
				So(got.TraitNormalized, ShouldResemble, want.TraitNormalized)
				So(got.PersonalityAnswers, ShouldResemble, want.PersonalityAnswers)
			})

			Convey("Then projects and matches carry over", func() {
				ps, err := dst.ListProjects(ctx, model.FilterState{})
				So(err, ShouldBeNil)
				So(len(ps), ShouldEqual, 4)

				want, _ := src.Matches(ctx)
				got, err := dst.Matches(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			})
		})

		Convey("When a bundle is merged", func() {
			incoming := model.Bundle{Projects: []model.Project{{ID: "p_new", Title: "Imported"}}}
			So(src.Import(ctx, incoming, service.ModeMerge), ShouldBeNil)

			Convey("Then imported projects come before the existing ones", func() {
				ps, err := src.ListProjects(ctx, model.FilterState{})
				So(err, ShouldBeNil)
				So(len(ps), ShouldEqual, 5)
				So(ps[0].ID, ShouldEqual, "p_new")
				So(ps[1].ID, ShouldEqual, "p_demo_0")
			})

			Convey("Then absent sections are left alone", func() {
				pf, err := src.Profile(ctx)
				So(err, ShouldBeNil)
				So(pf.Name, ShouldEqual, "Ada")
			})
		})

		Convey("When a bundle overwrites only the projects", func() {
			So(src.Import(ctx, model.Bundle{Projects: []model.Project{}}, ""), ShouldBeNil)

			Convey("Then the projects are replaced and the profile survives", func() {
				ps, _ := src.ListProjects(ctx, model.FilterState{})
				So(ps, ShouldBeEmpty)
				_, err := src.Profile(ctx)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the mode is unknown", func() {
			err := src.Import(ctx, model.Bundle{Projects: []model.Project{}}, "replace")
			So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)
		})

		Convey("When the bundle has no sections", func() {
			So(errors.Is(src.Import(ctx, model.Bundle{}, ""), service.ErrEmptyBundle), ShouldBeTrue)
			_, err := src.PreviewImport(model.Bundle{})
			So(errors.Is(err, service.ErrEmptyBundle), ShouldBeTrue)
		})
	})

	Convey("Given a bundle to preview", t, func() {
		svc, _ := newService()
		defer svc.Stop()
		b := model.Bundle{
			Projects: make([]model.Project, 8),
			Profile:  &model.Profile{},
			Courses:  model.SampleCourses(),
		}
		b.Projects[0].Title = "First"

		Convey("When previewed", func() {
			pv, err := svc.PreviewImport(b)
			So(err, ShouldBeNil)

			Convey("Then counts and at most six titles are reported", func() {
				So(pv.Projects, ShouldEqual, 8)
				So(len(pv.ProjectTitles), ShouldEqual, 6)
				So(pv.ProjectTitles[0], ShouldEqual, "First")
				So(pv.ProjectTitles[1], ShouldEqual, "(untitled)")
				So(pv.HasProfile, ShouldBeTrue)
				So(pv.ProfileName, ShouldEqual, "(no name)")
				So(pv.Courses, ShouldEqual, 3)
			})
		})
	})
}

func TestService_FeedsAndRadars(t *testing.T) {
	Convey("Given a seeded board", t, func() {
		ctx := context.Background()
		svc, _ := newService(service.WithFeedRenderer(feed.New(feed.WithBaseURL("https://board.example.com"))))
		defer svc.Stop()
		So(svc.SeedDemo(ctx, false), ShouldBeNil)

		Convey("When the JSON feed is rendered", func() {
			body, ct, err := svc.Feed(ctx, feed.FormatJSON)
			So(err, ShouldBeNil)
			So(ct, ShouldEqual, feed.ContentTypeJSON)

			Convey("Then it parses as a feed with every project", func() {
				f, err := gofeed.NewParser().ParseString(string(body))
				So(err, ShouldBeNil)
				So(len(f.Items), ShouldEqual, 4)
				So(f.Items[0].Link, ShouldEqual, "https://board.example.com/#project-p_demo_0")
			})
		})

		Convey("When the RSS feed is rendered", func() {
			body, ct, err := svc.Feed(ctx, feed.FormatRSS)
			So(err, ShouldBeNil)
			So(ct, ShouldEqual, feed.ContentTypeRSS)
			f, err := gofeed.NewParser().ParseString(string(body))
			So(err, ShouldBeNil)
			So(f.FeedType, ShouldEqual, "rss")
		})

		Convey("When an unknown format is asked for", func() {
			_, _, err := svc.Feed(ctx, "atom")
			So(errors.Is(err, feed.ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("When a project radar is rendered", func() {
			svg, err := svc.ProjectRadar(ctx, "p_demo_2", 0)
			So(err, ShouldBeNil)
			So(strings.HasPrefix(svg, "<svg"), ShouldBeTrue)
			So(svg, ShouldContainSubstring, `width="160"`)
		})

		Convey("When radars need a missing profile or project", func() {
			_, err := svc.ProfileRadar(ctx, 0)
			So(errors.Is(err, service.ErrNoProfile), ShouldBeTrue)
			_, err = svc.OverlayRadar(ctx, "p_demo_0", 0)
			So(errors.Is(err, service.ErrNoProfile), ShouldBeTrue)
			_, err = svc.ProjectRadar(ctx, "p_gone", 0)
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When an overlay is rendered with a profile", func() {
			_, err := svc.SavePersonality(ctx, map[string]int{"q3": 5})
			So(err, ShouldBeNil)
			svg, err := svc.OverlayRadar(ctx, "p_demo_2", 0)
			So(err, ShouldBeNil)
			So(svg, ShouldContainSubstring, `width="200"`)
			So(svg, ShouldContainSubstring, "userG")
		})
	})
}
