package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/matchboard/internal/domain/model"
	scoring "github.com/okian/matchboard/internal/domain/scoring"
	"github.com/okian/matchboard/internal/domain/traits"
	. "github.com/smartystreets/goconvey/convey"
)

func allAxes(v float64) map[traits.Trait]float64 {
	m := make(map[traits.Trait]float64, traits.Count)
	for _, t := range traits.All() {
		m[t] = v
	}
	return m
}

func TestScoreSignals(t *testing.T) {
	Convey("Given the hydro data centre project", t, func() {
		p := model.Project{
			Title:       "Cold-Climate Data Centre Placement using Cheap Hydro",
			Institution: "University of Toronto",
			Abstract:    "Optimizing placement of data centres in regions with abundant cheap hydro power.",
			Advantages:  []string{"Cheap Energy", "Data Centres"},
		}

		Convey("When the profile has nothing in common with it", func() {
			res := scoring.Score(p, model.Profile{Name: "Nobody"})

			Convey("Then the score is zero", func() {
				So(res.Score, ShouldEqual, 0)
				So(res.Breakdown.TraitSource, ShouldEqual, scoring.SourceNone)
			})
		})

		Convey("When the profile lists a skill found case-insensitively", func() {
			res := scoring.Score(p, model.Profile{Skills: []string{"hydro"}})

			Convey("Then the keyword bonus applies", func() {
				So(res.Score, ShouldBeGreaterThanOrEqualTo, 3)
				So(res.Breakdown.Keyword, ShouldEqual, 3)
				So(res.Breakdown.MatchedSkills, ShouldResemble, []string{"hydro"})
			})
		})

		Convey("When a skill is only a substring of a longer word", func() {
			res := scoring.Score(p, model.Profile{Skills: []string{"place"}})

			Convey("Then it still matches", func() {
				So(res.Breakdown.Keyword, ShouldEqual, 3)
			})
		})

		Convey("When skills are blank or padded", func() {
			res := scoring.Score(p, model.Profile{Skills: []string{"", "   ", " Hydro "}})

			Convey("Then blanks are skipped and padding trimmed", func() {
				So(res.Breakdown.Keyword, ShouldEqual, 3)
			})
		})

		Convey("When the role appears verbatim in the advantages", func() {
			withRole := p
			withRole.Advantages = append([]string{"Data Centre Ops"}, p.Advantages...)

			So(scoring.Score(withRole, model.Profile{Role: "Data Centre Ops"}).Breakdown.Role, ShouldEqual, 2)
			So(scoring.Score(withRole, model.Profile{Role: "data centre ops"}).Breakdown.Role, ShouldEqual, 0)
		})

		Convey("When the affiliation is part of the institution", func() {
			res := scoring.Score(p, model.Profile{Affiliation: "toronto"})

			Convey("Then the affiliation bonus applies", func() {
				So(res.Breakdown.Affiliation, ShouldEqual, 1)
				So(res.Score, ShouldEqual, 1)
			})
		})
	})
}

func TestTraitBonus(t *testing.T) {
	Convey("Given a project declaring all eight traits", t, func() {
		p := model.Project{Title: "X", Traits: traits.RawOf(allAxes(4))}

		Convey("When the profile has an identical normalized vector", func() {
			pf := model.Profile{TraitNormalized: traits.NormalizedOf(allAxes(0.75))}
			res := scoring.Score(p, pf)

			Convey("Then closeness is 1 and the bonus is 6", func() {
				So(res.Breakdown.Closeness, ShouldEqual, 1)
				So(res.Breakdown.Trait, ShouldEqual, 6)
				So(res.Breakdown.TraitSource, ShouldEqual, scoring.SourceDeclared)
			})
		})

		Convey("When the profile only has raw averages", func() {
			pf := model.Profile{Traits: traits.RawOf(allAxes(4))}

			Convey("Then they are normalized before comparing", func() {
				So(scoring.Score(p, pf).Breakdown.Trait, ShouldEqual, 6)
			})
		})

		Convey("When the profile has no trait data", func() {
			res := scoring.Score(p, model.Profile{})

			Convey("Then the bonus is omitted entirely", func() {
				So(res.Breakdown.Trait, ShouldEqual, 0)
				So(res.Breakdown.Closeness, ShouldEqual, 0)
				So(res.Score, ShouldEqual, 0)
			})
		})

		Convey("When the profile is at the opposite extreme", func() {
			pf := model.Profile{TraitNormalized: traits.NormalizedOf(allAxes(-0.5))}
			res := scoring.Score(p, pf)

			Convey("Then closeness clamps to zero", func() {
				So(res.Breakdown.Closeness, ShouldEqual, 0)
				So(res.Breakdown.Trait, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a project with no advantages and no declared traits", t, func() {
		p := model.Project{Title: "Bare"}
		pf := model.Profile{TraitNormalized: traits.NormalizedOf(allAxes(0.5))}

		Convey("Then no trait bonus can be earned", func() {
			res := scoring.Score(p, pf)
			So(res.Breakdown.Trait, ShouldEqual, 0)
			So(res.Breakdown.TraitSource, ShouldEqual, scoring.SourceNone)
		})
	})

	Convey("Given a project with only unknown advantage tags", t, func() {
		p := model.Project{Title: "Odd", Advantages: []string{"Vibes"}}
		pf := model.Profile{TraitNormalized: traits.NormalizedOf(allAxes(0.5))}

		Convey("Then no trait bonus can be earned", func() {
			So(scoring.Score(p, pf).Breakdown.Trait, ShouldEqual, 0)
		})
	})
}

func TestAdvantageFallback(t *testing.T) {
	Convey("Given the default advantage table", t, func() {
		table := scoring.DefaultAdvantageTable()

		Convey("When inferring from Nuclear alone", func() {
			v, ok := table.Infer([]string{"Nuclear"})

			Convey("Then both tied maxima normalize to 1.0", func() {
				So(ok, ShouldBeTrue)
				So(v.ValueOr(traits.Technical, 0), ShouldEqual, 1.0)
				So(v.ValueOr(traits.Compliance, 0), ShouldEqual, 1.0)
				So(v.ValueOr(traits.RiskAversion, 0), ShouldEqual, 0.75)
				So(v.Has(traits.Drive), ShouldBeFalse)
			})
		})

		Convey("When inferring from overlapping tags", func() {
			v, ok := table.Infer([]string{"Cheap Energy", "Data Centres"})

			Convey("Then contributions are summed before dividing by the max", func() {
				So(ok, ShouldBeTrue)
				// technical 2+3, scale 2+3, drive 3, compliance 2
				So(v.ValueOr(traits.Technical, 0), ShouldEqual, 1.0)
				So(v.ValueOr(traits.Scale, 0), ShouldEqual, 1.0)
				So(v.ValueOr(traits.Drive, 0), ShouldEqual, 0.6)
				So(v.ValueOr(traits.Compliance, 0), ShouldEqual, 0.4)
			})
		})

		Convey("When a Nuclear project is scored against a matching profile", func() {
			p := model.Project{Title: "Reactor", Advantages: []string{"Nuclear"}}
			pf := model.Profile{TraitNormalized: traits.NormalizedOf(map[traits.Trait]float64{
				traits.Technical:    1,
				traits.Compliance:   1,
				traits.RiskAversion: 0.75,
			})}
			res := scoring.Score(p, pf)

			Convey("Then the advantage vector drives a full bonus", func() {
				So(res.Breakdown.TraitSource, ShouldEqual, scoring.SourceAdvantages)
				So(res.Breakdown.Trait, ShouldEqual, 6)
			})
		})

		Convey("When parsing a table with an unknown trait", func() {
			_, err := scoring.ParseAdvantageTable(map[string]map[string]float64{"Solar": {"sunshine": 1}})
			So(err, ShouldNotBeNil)
		})

		Convey("When parsing a valid table", func() {
			tbl, err := scoring.ParseAdvantageTable(map[string]map[string]float64{"Solar": {"speed": 2, "scale": 1}})
			So(err, ShouldBeNil)
			v, ok := tbl.Infer([]string{"Solar"})
			So(ok, ShouldBeTrue)
			So(v.ValueOr(traits.Speed, 0), ShouldEqual, 1)
			So(v.ValueOr(traits.Scale, 0), ShouldEqual, 0.5)
		})
	})
}

func TestCloseness(t *testing.T) {
	Convey("Given vectors with partial overlap", t, func() {
		profile := traits.NormalizedOf(map[traits.Trait]float64{traits.Drive: 1})
		project := traits.NormalizedOf(map[traits.Trait]float64{traits.Speed: 1})

		Convey("Then missing sides use the asymmetric defaults", func() {
			// drive: 1-0, speed: 0.5-1
			want := 1 - math.Sqrt(1+0.25)/math.Sqrt(2)
			So(scoring.Closeness(profile, project), ShouldAlmostEqual, want, 1e-9)
		})

		Convey("Then empty inputs give zero", func() {
			So(scoring.Closeness(traits.Normalized{}, traits.Normalized{}), ShouldEqual, 0)
		})
	})
}

func TestEngineOptions(t *testing.T) {
	Convey("Given an engine with custom weights", t, func() {
		e := scoring.NewEngine(scoring.WithWeights(scoring.Weights{Keyword: 5, Role: 1, Affiliation: 4, TraitBonusMax: 10}))
		p := model.Project{
			Title:       "Methane capture",
			Institution: "McGill University",
			Advantages:  []string{"Methane", "Researcher / Academic"},
			Traits:      traits.RawOf(allAxes(3)),
		}
		pf := model.Profile{
			Role:            "Researcher / Academic",
			Skills:          []string{"methane"},
			Affiliation:     "McGill",
			TraitNormalized: traits.NormalizedOf(allAxes(0.5)),
		}

		Convey("Then every signal uses the configured weight", func() {
			res := e.Score(p, pf)
			So(res.Breakdown.Keyword, ShouldEqual, 5)
			So(res.Breakdown.Role, ShouldEqual, 1)
			So(res.Breakdown.Affiliation, ShouldEqual, 4)
			So(res.Breakdown.Trait, ShouldEqual, 10)
			So(res.Score, ShouldEqual, 20)
		})

		Convey("Then negative weights are ignored", func() {
			e2 := scoring.NewEngine(scoring.WithWeights(scoring.Weights{Keyword: -1, Role: 2, Affiliation: 1, TraitBonusMax: 6}))
			So(e2.Weights().Keyword, ShouldEqual, scoring.DefaultKeywordWeight)
		})
	})
}
