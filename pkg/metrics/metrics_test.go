package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every metric is registered on it", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsTotal.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("school"),
				WithSubsystem("students"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithPrometheusRegistry(registry),
			)
			manager.recordsTotal.Set(1)

			Convey("Then names carry the namespace and subsystem", func() {
				So(manager.namespace, ShouldEqual, "school")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 1})
				count, err := testutil.GatherAndCount(registry, "school_students_total")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})
		})

		Convey("When options carry empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "gradebook")
				So(manager.subsystem, ShouldEqual, "records")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When record counters are updated", func() {
			before := testutil.ToFloat64(globalManager.addResults.WithLabelValues("duplicate"))
			RecordAdd("duplicate")
			RecordAdd("duplicate")
			UpdateRecordsTotal(42)

			Convey("Then the values are visible", func() {
				So(testutil.ToFloat64(globalManager.addResults.WithLabelValues("duplicate")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.recordsTotal), ShouldEqual, 42)
			})
		})

		Convey("When history depth is updated", func() {
			UpdateHistoryDepth(3, 1)

			Convey("Then both stacks are reported", func() {
				So(testutil.ToFloat64(globalManager.historyDepth.WithLabelValues("undo")), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.historyDepth.WithLabelValues("redo")), ShouldEqual, 1)
			})
		})

		Convey("When the remaining recorders are called", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordLookup("found")
					RecordLookup("not_found")
					RecordFeePayment()
					RecordHistoryOperation("undo", "ok")
					RecordRepositoryLatency("add", 0.2)
					RecordHTTPRequest("students", "POST", "201")
					RecordHTTPRequestDuration("students", "POST", "201", 1.5)
					RecordErrorByComponent("repository", "duplicate_key")
					RecordErrorByEndpoint("students", "POST", "client_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When the registry is exposed", func() {
			RecordLookup("found")
			out, err := GetRegistry().Gather()

			Convey("Then it gathers gradebook metrics", func() {
				So(err, ShouldBeNil)
				found := false
				for _, mf := range out {
					if strings.HasPrefix(mf.GetName(), "gradebook_") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded from many goroutines", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordLookup("found")
					UpdateRecordsTotal(j)
					RecordRepositoryLatency("find", float64(j))
				}
			}()
		}
		wg.Wait()

		Convey("Then it should handle concurrent access without panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}
