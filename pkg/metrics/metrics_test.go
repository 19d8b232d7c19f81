package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created and enabled", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
				manager.projectsTotal.Set(4)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_pfx_projects" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording matches", func() {
			before := testutil.ToFloat64(globalManager.matchesComputed)
			RecordMatch(9, 4, "advantages")
			RecordMatch(3, 0, "none")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.matchesComputed), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.matchTraitSources.WithLabelValues("none")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating board totals", func() {
			UpdateBoardTotals(4, 1, 3, 3, true)

			Convey("Then the gauges reflect the values", func() {
				So(testutil.ToFloat64(globalManager.projectsTotal), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.favoritesTotal), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.joinersTotal), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.profilePresent), ShouldEqual, 1)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordMatchLatency(1.5)
				RecordOperation("save_project", "ok")
				RecordImport("merge")
				RecordExport()
				RecordFeedRender("rss")
				RecordStoreLatency("memory", "read", 0.1)
				RecordStoreError("sqlite", "write")
				RecordHTTPRequest("projects", "GET", "200")
				RecordHTTPRequestDuration("projects", "GET", "200", 2)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("projects", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 1)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "matchboard_board_imports_total")
				So(joined, ShouldContainSubstring, "matchboard_board_store_errors_total")
				So(joined, ShouldContainSubstring, "matchboard_board_http_requests_total")
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		globalMu.RLock()
		prevManager, prevRegistry := globalManager, customRegistry
		globalMu.RUnlock()
		defer func() {
			globalMu.Lock()
			globalManager, customRegistry = prevManager, prevRegistry
			globalMu.Unlock()
		}()

		m := Configure(
			WithMetricPrefix("edge"),
			WithCustomLabels(map[string]string{"site": "lab"}),
			WithHistogramBuckets([]float64{1, 10}),
			WithRefreshInterval(2*time.Second),
		)

		Convey("Then it records into a fresh registry", func() {
			So(m.RefreshInterval(), ShouldEqual, 2*time.Second)
			So(GetRegistry(), ShouldNotPointTo, prevRegistry)

			UpdateBoardTotals(2, 0, 0, 3, false)
			So(testutil.ToFloat64(m.projectsTotal), ShouldEqual, 2)

			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var found bool
			for _, f := range families {
				if f.GetName() == "matchboard_board_edge_projects" {
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "lab")
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("When disabled", func() {
			m := Configure(WithMetricsEnabled(false))

			Convey("Then recording is a no-op", func() {
				RecordExport()
				So(testutil.ToFloat64(m.exports), ShouldEqual, 0)
			})
		})
	})
}
