package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "booking_attribution"

var (
	RecordsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_ingested_total",
		Help:      "Webhook records read and decoded.",
	})

	RecordsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Webhook records that could not be fetched or decoded.",
	})

	SpendDaysFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "spend_days_fetched_total",
		Help:      "Daily spend documents fetched.",
	})

	SpendDaysMissing = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "spend_days_missing_total",
		Help:      "Days with no spend document.",
	})

	// FetchFailures is labelled by source: listing, object or spend.
	FetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Failed reads from the event store or spend feed.",
	}, []string{"source"})

	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one snapshot build.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	SnapshotBookings = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_bookings",
		Help:      "Bookings in the snapshot currently served.",
	})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Analytics requests by route and status.",
	}, []string{"route", "status"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RecordsIngested,
		RecordsSkipped,
		SpendDaysFetched,
		SpendDaysMissing,
		FetchFailures,
		PipelineDuration,
		SnapshotBookings,
		HTTPRequests,
	}
}

// Register adds every collector to reg. Already registered collectors are
// ignored so tests and both binaries can call it freely.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
