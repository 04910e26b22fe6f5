package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raven_ingest_ticks_total",
		Help: "Total number of ingestion ticks executed.",
	})

	ticksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raven_ingest_ticks_skipped_total",
		Help: "Ticks skipped because the previous tick was still in flight.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "raven_ingest_tick_duration_seconds",
		Help:    "Wall-clock duration of completed ingestion ticks.",
		Buckets: prometheus.DefBuckets,
	})

	itemsInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raven_ingest_items_inserted_total",
		Help: "Fresh items persisted, by source.",
	}, []string{"source"})

	itemsDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raven_ingest_items_duplicate_total",
		Help: "Items already present at insert time, by source.",
	}, []string{"source"})

	entriesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raven_ingest_entries_skipped_total",
		Help: "Feed entries dropped for missing or unparsable mandatory fields, by source.",
	}, []string{"source"})

	unitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raven_ingest_unit_failures_total",
		Help: "Unit errors by source and pipeline stage.",
	}, []string{"source", "stage"})
)

func observeTick(report TickReport) {
	tickDuration.Observe(report.Elapsed.Seconds())
	for _, u := range report.Units {
		if u.Inserted > 0 {
			itemsInserted.WithLabelValues(u.Source).Add(float64(u.Inserted))
		}
		if u.Duplicates > 0 {
			itemsDuplicate.WithLabelValues(u.Source).Add(float64(u.Duplicates))
		}
		if u.Skipped > 0 {
			entriesSkipped.WithLabelValues(u.Source).Add(float64(u.Skipped))
		}
		if u.Err != nil {
			unitFailures.WithLabelValues(u.Source, u.Stage).Inc()
		}
	}
}
