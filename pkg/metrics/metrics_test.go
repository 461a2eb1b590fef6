package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// family returns the gathered metric family with the given full name, or nil.
func family(reg *prometheus.Registry, name string) *dto.MetricFamily {
	mfs, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(name string) float64 {
	mf := family(GetRegistry(), name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return 0
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func gaugeValue(name string) float64 {
	mf := family(GetRegistry(), name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return 0
	}
	return mf.GetMetric()[0].GetGauge().GetValue()
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.queries.Inc()

			Convey("Then metrics should use the namespace and const labels", func() {
				mf := family(registry, "test_unit_queries_total")
				So(mf, ShouldNotBeNil)
				labels := mf.GetMetric()[0].GetLabel()
				So(labels, ShouldHaveLength, 1)
				So(labels[0].GetName(), ShouldEqual, "env")
				So(labels[0].GetValue(), ShouldEqual, "test")
			})
		})

		Convey("When creating two managers on one registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecordQuery(t *testing.T) {
	Convey("Given the global manager", t, func() {
		queries := counterValue("wardrobe_matcher_queries_total")
		empty := counterValue("wardrobe_matcher_empty_queries_total")

		Convey("When recording a query with matches", func() {
			RecordQuery(4, 1.5)

			Convey("Then only the query counter should move", func() {
				So(counterValue("wardrobe_matcher_queries_total"), ShouldEqual, queries+1)
				So(counterValue("wardrobe_matcher_empty_queries_total"), ShouldEqual, empty)
			})
		})

		Convey("When recording a query with no matches", func() {
			RecordQuery(0, 0.2)

			Convey("Then the empty counter should move too", func() {
				So(counterValue("wardrobe_matcher_queries_total"), ShouldEqual, queries+1)
				So(counterValue("wardrobe_matcher_empty_queries_total"), ShouldEqual, empty+1)
			})
		})
	})
}

func TestGauges(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When updating gauges", func() {
			UpdateCatalogEntries(42)
			UpdateCharactersStored(7)
			UpdateQueueSize(3)
			UpdateQueueCapacity(100)
			UpdateQueueUtilization(0.03)
			UpdateWorkerCount(4)
			UpdateWorkerActiveCount(4)

			Convey("Then the values should be exported", func() {
				So(gaugeValue("wardrobe_matcher_catalog_entries"), ShouldEqual, 42)
				So(gaugeValue("wardrobe_matcher_characters_stored"), ShouldEqual, 7)
				So(gaugeValue("wardrobe_matcher_queue_size"), ShouldEqual, 3)
				So(gaugeValue("wardrobe_matcher_queue_capacity"), ShouldEqual, 100)
				So(gaugeValue("wardrobe_matcher_queue_utilization_ratio"), ShouldAlmostEqual, 0.03)
				So(gaugeValue("wardrobe_matcher_worker_count"), ShouldEqual, 4)
			})
		})
	})
}

func TestRecordingDoesNotPanic(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording every kind of metric", func() {
			So(func() {
				RecordCatalogLoad("embedded")
				RecordCatalogLoadError()
				RecordCharacterBuilt()
				RecordCharacterDuplicate()
				RecordCharacterError()
				RecordStoreLatency("save", 0.4)
				RecordHTTPRequest("/match", "POST", "200")
				RecordHTTPRequestDuration("/match", "POST", "200", 2.5)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.1)
				RecordWorkerProcessingLatency(0.7)
				RecordWorkerError()
				RecordErrorByComponent("worker", "build_failed")
				RecordErrorByEndpoint("/characters", "POST", "bad_request")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.05)
			}, ShouldNotPanic)

			Convey("Then labelled series should be present", func() {
				mf := family(GetRegistry(), "wardrobe_matcher_catalog_loads_total")
				So(mf, ShouldNotBeNil)
				So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "embedded")
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager", t, func() {
		before := GetRegistry()

		Convey("When it is re-initialised with a namespace", func() {
			Init(WithNamespace("shop"))
			defer Init()
			RecordCatalogLoadError()

			Convey("Then metrics should land on a new registry under that name", func() {
				So(GetRegistry(), ShouldNotPointTo, before)
				mf := family(GetRegistry(), "shop_matcher_catalog_load_errors_total")
				So(mf, ShouldNotBeNil)
				So(mf.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
			})
		})
	})
}
