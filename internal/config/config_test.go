package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/wardrobe/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MaxResults, convey.ShouldEqual, 10)
			convey.So(cfg.BuildQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.CatalogPageSize, convey.ShouldEqual, 100)
			convey.So(cfg.CatalogFetchTimeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.StorePath, convey.ShouldBeEmpty)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "wardrobe")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "matcher")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When max_results is zero", func() {
			cfg.MaxResults = 0

			convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_results")
			})
		})

		convey.Convey("When a score weight is negative", func() {
			cfg.ScoreWeights = map[string]int{"color": -1}

			convey.Convey("Then validation should name the bucket", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "score_weights.color")
			})
		})

		convey.Convey("When latency buckets are not increasing", func() {
			cfg.MetricsLatencyBuckets = []float64{5, 5, 10}

			convey.Convey("Then validation should name the setting", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_latency_buckets")
			})
		})

		convey.Convey("When the page size is zero", func() {
			cfg.CatalogPageSize = 0

			convey.Convey("Then validation should fail", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}
