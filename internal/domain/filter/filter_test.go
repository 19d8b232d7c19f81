package filter_test

import (
	"testing"

	"github.com/okian/matchboard/internal/domain/filter"
	"github.com/okian/matchboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ids(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	Convey("Given a handful of projects", t, func() {
		projects := []model.Project{
			{ID: "a", Title: "Hydro placement", Stage: "Research", Advantages: []string{"Cheap Energy", "Data Centres"}, Favorite: true},
			{ID: "b", Title: "Methane capture", Stage: "Prototype", Advantages: []string{"Methane", "Resources"}, OwnerEmail: "lchen@mcgill.ca"},
			{ID: "c", Title: "Microreactors", Stage: "Idea", Advantages: []string{"Nuclear", "Cheap Energy", "AI / Compute"}, Authors: "R. Patel"},
		}

		Convey("When the filter is empty", func() {
			Convey("Then everything passes in order", func() {
				So(ids(filter.Apply(projects, model.FilterState{})), ShouldResemble, []string{"a", "b", "c"})
			})
		})

		Convey("When filtering favorites", func() {
			So(ids(filter.Apply(projects, model.FilterState{Favorites: true})), ShouldResemble, []string{"a"})
		})

		Convey("When filtering by stage", func() {
			Convey("Then the match is exact but case-insensitive", func() {
				So(ids(filter.Apply(projects, model.FilterState{Stage: " prototype "})), ShouldResemble, []string{"b"})
				So(ids(filter.Apply(projects, model.FilterState{Stage: "proto"})), ShouldBeEmpty)
			})
		})

		Convey("When filtering by advantages in any mode", func() {
			f := model.FilterState{Advantages: []string{"cheap energy", "methane"}}
			So(ids(filter.Apply(projects, f)), ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("When filtering by advantages in all mode", func() {
			f := model.FilterState{Advantages: []string{"Cheap Energy", "nuclear"}, AdvMatchMode: model.MatchAll}
			So(ids(filter.Apply(projects, f)), ShouldResemble, []string{"c"})
		})

		Convey("When searching free text", func() {
			Convey("Then owner, author and advantage fields are searched", func() {
				So(ids(filter.Apply(projects, model.FilterState{Text: "MCGILL"})), ShouldResemble, []string{"b"})
				So(ids(filter.Apply(projects, model.FilterState{Text: "patel"})), ShouldResemble, []string{"c"})
				So(ids(filter.Apply(projects, model.FilterState{Text: "compute"})), ShouldResemble, []string{"c"})
				So(ids(filter.Apply(projects, model.FilterState{Text: "   "})), ShouldResemble, []string{"a", "b", "c"})
			})
		})

		Convey("When criteria are combined", func() {
			f := model.FilterState{Text: "hydro", Advantages: []string{"Nuclear"}}
			So(filter.Apply(projects, f), ShouldBeEmpty)
		})
	})
}
