package config_test

import (
	"errors"
	"testing"

	"github.com/okian/matchboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.SeedDemo, convey.ShouldBeTrue)
			convey.So(cfg.MaxMatches, convey.ShouldEqual, 6)
			convey.So(cfg.MaxAdvantages, convey.ShouldEqual, 3)
			convey.So(cfg.KeywordWeight, convey.ShouldEqual, 3)
			convey.So(cfg.RoleWeight, convey.ShouldEqual, 2)
			convey.So(cfg.AffiliationWeight, convey.ShouldEqual, 1)
			convey.So(cfg.TraitBonusMax, convey.ShouldEqual, 6)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsRefreshSeconds, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the store driver is unknown", func() {
			cfg.StoreDriver = "redis"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When sqlite has no path", func() {
			cfg.StoreDriver = config.StoreSQLite
			cfg.StorePath = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log format is unknown", func() {
			cfg.LogFormat = "xml"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When limits are not positive", func() {
			cfg.MaxMatches = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a weight is negative", func() {
			cfg.RoleWeight = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the metrics refresh interval is not positive", func() {
			cfg.MetricsRefreshSeconds = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When metrics buckets are not increasing", func() {
			cfg.MetricsBuckets = []float64{1, 5, 5}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg.MetricsBuckets = []float64{1, 5, 25}
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
