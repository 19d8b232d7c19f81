package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchboard/internal/adapters/http/api"
	service "github.com/okian/matchboard/internal/app"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newBoard() *service.Service {
	n := 0
	svc := service.New(
		service.WithLogger(logger.Discard()),
		service.WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }),
		service.WithIDGenerator(func() (string, error) {
			n++
			return fmt.Sprintf("p_http%d", n), nil
		}),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func newMux(board api.Board) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(board, logger.Discard()).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := newBoard()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("Then health serves metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then every response carries a request id", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)

			req := httptest.NewRequest("GET", "/roles", http.NoBody)
			req.Header.Set(api.HeaderRequestID, "req-42")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get(api.HeaderRequestID), ShouldEqual, "req-42")
		})

		Convey("Then a nil mux panics", func() {
			So(func() { api.NewServer(svc, nil).Register(context.Background(), nil) }, ShouldPanic)
		})

		Convey("Then unknown methods are rejected by the mux", func() {
			w := do(mux, "PATCH", "/projects", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestProjectsAPI(t *testing.T) {
	Convey("Given an empty board", t, func() {
		svc := newBoard()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("When a project is posted", func() {
			w := do(mux, "POST", "/projects", `{"title":"Hydro","advantages":["Cheap Energy"],"institution":"UofT"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			p := decode[model.Project](w)

			Convey("Then it is stored with a generated id", func() {
				So(p.ID, ShouldEqual, "p_http1")
				g := do(mux, "GET", "/projects/p_http1", "")
				So(g.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Project](g).Title, ShouldEqual, "Hydro")
			})

			Convey("Then it can be updated through its path id", func() {
				u := do(mux, "PUT", "/projects/p_http1", `{"id":"ignored","title":"Hydro v2"}`)
				So(u.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Project](u).ID, ShouldEqual, "p_http1")
			})

			Convey("Then favorites toggle", func() {
				f := do(mux, "POST", "/projects/p_http1/favorite", "")
				So(f.Code, ShouldEqual, http.StatusOK)
				So(f.Body.String(), ShouldContainSubstring, `"favorite":true`)

				l := do(mux, "GET", "/projects?favorites=true", "")
				So(len(decode[[]model.Project](l)), ShouldEqual, 1)
			})

			Convey("Then it can be listed with filters", func() {
				l := do(mux, "GET", "/projects?advantage=cheap+energy&text=hydro", "")
				So(l.Code, ShouldEqual, http.StatusOK)
				So(len(decode[[]model.Project](l)), ShouldEqual, 1)

				l = do(mux, "GET", "/projects?stage=Prototype", "")
				So(decode[[]model.Project](l), ShouldBeEmpty)
			})

			Convey("Then joining without a profile is a conflict", func() {
				j := do(mux, "POST", "/projects/p_http1/join", "")
				So(j.Code, ShouldEqual, http.StatusConflict)
				So(decode[errorBody](j).Code, ShouldEqual, "conflict")
			})

			Convey("Then joining with a profile adds and removes the joiner", func() {
				So(do(mux, "PUT", "/profile", `{"name":"Ada","email":"ada@example.com"}`).Code, ShouldEqual, http.StatusOK)
				j := do(mux, "POST", "/projects/p_http1/join", "")
				So(j.Code, ShouldEqual, http.StatusOK)
				So(len(decode[model.Project](j).Joiners), ShouldEqual, 1)

				d := do(mux, "DELETE", "/projects/p_http1/joiners/ada@example.com", "")
				So(d.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Project](d).Joiners, ShouldBeEmpty)
			})

			Convey("Then its radar renders as SVG", func() {
				r := do(mux, "GET", "/projects/p_http1/radar.svg?size=120", "")
				So(r.Code, ShouldEqual, http.StatusOK)
				So(r.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
				So(r.Body.String(), ShouldContainSubstring, `width="120"`)

				bad := do(mux, "GET", "/projects/p_http1/radar.svg?size=big", "")
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then it can be deleted", func() {
				So(do(mux, "DELETE", "/projects/p_http1", "").Code, ShouldEqual, http.StatusNoContent)
				g := do(mux, "GET", "/projects/p_http1", "")
				So(g.Code, ShouldEqual, http.StatusNotFound)
				So(decode[errorBody](g).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the submission is invalid", func() {
			w := do(mux, "POST", "/projects", `{"title":""}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "bad_request")

			w = do(mux, "POST", "/projects", `{"title":"x","advantages":["a","b","c","d"]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w = do(mux, "POST", "/projects", `{not json`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w = do(mux, "POST", "/projects", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestProfileAPI(t *testing.T) {
	Convey("Given an empty board", t, func() {
		svc := newBoard()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("When no profile exists", func() {
			So(do(mux, "GET", "/profile", "").Code, ShouldEqual, http.StatusConflict)
			So(do(mux, "GET", "/matches", "").Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When the questionnaire is answered", func() {
			w := do(mux, "PUT", "/profile/personality", `{"answers":{"q1":5,"q3":3}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			pf := decode[model.Profile](w)

			Convey("Then the profile carries raw and normalized traits", func() {
				So(pf.Role, ShouldEqual, model.DefaultRole)
				So(w.Body.String(), ShouldContainSubstring, `"drive":5`)
				So(pf.TraitNormalized.Len(), ShouldEqual, 2)
			})

			Convey("Then the profile radar renders", func() {
				r := do(mux, "GET", "/profile/radar.svg", "")
				So(r.Code, ShouldEqual, http.StatusOK)
				So(r.Body.String(), ShouldStartWith, "<svg")
			})

			Convey("Then clearing reports whether anything was cleared", func() {
				c := do(mux, "DELETE", "/profile/personality", "")
				So(c.Body.String(), ShouldContainSubstring, `"cleared":true`)
			})

			Convey("Then the whole profile can be cleared", func() {
				So(do(mux, "DELETE", "/profile", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, "GET", "/profile", "").Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When answers are out of range", func() {
			w := do(mux, "PUT", "/profile/personality", `{"answers":{"q1":9}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When reference data is requested", func() {
			q := do(mux, "GET", "/questions", "")
			So(q.Code, ShouldEqual, http.StatusOK)
			So(q.Body.String(), ShouldContainSubstring, `"trait":"risk_aversion"`)

			r := decode[[]string](do(mux, "GET", "/roles", ""))
			So(r, ShouldContain, "Data Centre Ops")
		})

		Convey("When enrolling in a course", func() {
			So(do(mux, "PUT", "/profile", `{"name":"Ada","email":"ada@example.com"}`).Code, ShouldEqual, http.StatusOK)
			So(len(decode[[]model.Course](do(mux, "GET", "/courses", ""))), ShouldEqual, 3)
			So(do(mux, "POST", "/courses/c1/enroll", "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, "POST", "/courses/nope/enroll", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When filters are saved", func() {
			w := do(mux, "PUT", "/filters", `{"stage":"Idea","advantages":["Nuclear"],"advMatchMode":"bogus"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then they are normalized and read back", func() {
				f := decode[model.FilterState](do(mux, "GET", "/filters", ""))
				So(f.Stage, ShouldEqual, "Idea")
				So(f.AdvMatchMode, ShouldEqual, model.MatchAny)
			})

			Convey("Then listing with saved=true applies them", func() {
				So(do(mux, "POST", "/seed", "").Code, ShouldEqual, http.StatusOK)
				ps := decode[[]model.Project](do(mux, "GET", "/projects?saved=true", ""))
				So(len(ps), ShouldEqual, 1)
				So(ps[0].ID, ShouldEqual, "p_demo_2")
			})
		})
	})
}

func TestBundleAPI(t *testing.T) {
	Convey("Given a seeded board with a profile", t, func() {
		svc := newBoard()
		defer svc.Stop()
		mux := newMux(svc)
		So(do(mux, "POST", "/seed", "").Code, ShouldEqual, http.StatusOK)
		So(do(mux, "PUT", "/profile", `{"name":"Ada","email":"ada@example.com","skills":["hydro"]}`).Code, ShouldEqual, http.StatusOK)

		Convey("Then seeding again without force is a conflict", func() {
			So(do(mux, "POST", "/seed", "").Code, ShouldEqual, http.StatusConflict)
			So(do(mux, "POST", "/seed?force=true", "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, "POST", "/seed?force=maybe", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then matches are ranked", func() {
			ms := decode[[]types.Match](do(mux, "GET", "/matches", ""))
			So(len(ms), ShouldEqual, 4)
			So(ms[0].ProjectID, ShouldEqual, "p_demo_0")
			So(ms[0].Keyword, ShouldEqual, 3)
		})

		Convey("When the board is exported", func() {
			w := do(mux, "GET", "/export", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, api.ExportFilename)
			exported := w.Body.String()

			Convey("Then the export previews", func() {
				pv := decode[types.ImportPreview](do(mux, "POST", "/import/preview", exported))
				So(pv.Projects, ShouldEqual, 4)
				So(pv.HasProfile, ShouldBeTrue)
				So(pv.ProfileName, ShouldEqual, "Ada")
			})

			Convey("Then it merges back in front of the existing projects", func() {
				i := do(mux, "POST", "/import?mode=merge", exported)
				So(i.Code, ShouldEqual, http.StatusOK)
				ps := decode[[]model.Project](do(mux, "GET", "/projects", ""))
				So(len(ps), ShouldEqual, 8)
			})

			Convey("Then an unknown mode is rejected", func() {
				So(do(mux, "POST", "/import?mode=replace", exported).Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("Then an empty bundle is rejected", func() {
			So(do(mux, "POST", "/import", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "POST", "/import/preview", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then feeds are served in both formats", func() {
			j := do(mux, "GET", "/feed.json", "")
			So(j.Code, ShouldEqual, http.StatusOK)
			So(j.Header().Get("Content-Type"), ShouldStartWith, "application/feed+json")
			So(j.Body.String(), ShouldContainSubstring, "jsonfeed.org/version/1")

			x := do(mux, "GET", "/feed.xml", "")
			So(x.Code, ShouldEqual, http.StatusOK)
			So(x.Header().Get("Content-Type"), ShouldStartWith, "application/rss+xml")
			So(x.Body.String(), ShouldContainSubstring, "<rss")
		})

		Convey("Then the overlay radar renders", func() {
			o := do(mux, "GET", "/projects/p_demo_2/overlay.svg", "")
			So(o.Code, ShouldEqual, http.StatusOK)
		})
	})
}

type failingBoard struct {
	api.Board
}

func (failingBoard) GetStats(context.Context) (types.Stats, error) {
	return types.Stats{}, errors.New("disk on fire")
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a board whose store fails", t, func() {
		mux := newMux(failingBoard{})

		Convey("When stats are requested", func() {
			w := do(mux, "GET", "/stats", "")

			Convey("Then the cause is hidden behind a 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decode[errorBody](w)
				So(body.Code, ShouldEqual, "internal_error")
				So(body.Message, ShouldNotContainSubstring, "disk")
			})
		})
	})

	Convey("Given API errors", t, func() {
		Convey("Then kinds and causes are both visible to errors.Is", func() {
			cause := errors.New("boom")
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")

			var apiErr *api.Error
			So(errors.As(api.Wrap("api.op", service.ErrNotFound), &apiErr), ShouldBeTrue)
			So(apiErr.Op, ShouldEqual, "api.op")
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.NewKind("api.op", api.ErrNotFound).Error(), ShouldEqual, "api.op: not found")
		})
	})
}
