// Package metrics exposes Prometheus counters for the feed pipeline.
// Every helper is a no-op until Init has been called, so packages can
// record unconditionally and tests need no registry.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ilias_herald"

var (
	once sync.Once

	reloadsTotal        prometheus.Counter
	reloadFailures      prometheus.Counter
	itemsDispatched     prometheus.Counter
	assignmentsNotified prometheus.Counter
	itemsSkipped        *prometheus.CounterVec
	dispatchFailures    *prometheus.CounterVec
	entriesEvicted      prometheus.Counter
	storeEntries        prometheus.Gauge
	reloadDuration      prometheus.Observer
)

// Skip reasons recorded by ItemSkipped.
const (
	SkipInvalid      = "invalid"
	SkipUnclassified = "unclassified"
	SkipDuplicate    = "duplicate"
	SkipTooOld       = "too_old"
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		reloadsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reloads_total", Help: "Number of feed reload passes started"})
		reloadFailures = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reload_failures_total", Help: "Number of feed reload passes that failed"})
		itemsDispatched = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "items_dispatched_total", Help: "Number of feed items announced"})
		assignmentsNotified = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "assignments_notified_total", Help: "Number of deadline notices sent"})
		itemsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "items_skipped_total", Help: "Number of feed items skipped, by reason"}, []string{"reason"})
		dispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dispatch_failures_total", Help: "Number of failed notifications, by kind"}, []string{"kind"})
		entriesEvicted = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "store_entries_evicted_total", Help: "Number of dedup entries evicted by cleanup"})
		storeEntries = promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "store_entries", Help: "Current number of dedup entries"})
		reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "reload_duration_seconds", Help: "Feed reload duration seconds", Buckets: prometheus.DefBuckets})
	})
}

func ReloadStarted() {
	if reloadsTotal != nil {
		reloadsTotal.Inc()
	}
}

func ReloadFailed() {
	if reloadFailures != nil {
		reloadFailures.Inc()
	}
}

func ObserveReload(d time.Duration) {
	if reloadDuration != nil {
		reloadDuration.Observe(d.Seconds())
	}
}

func ItemDispatched() {
	if itemsDispatched != nil {
		itemsDispatched.Inc()
	}
}

func AssignmentNotified() {
	if assignmentsNotified != nil {
		assignmentsNotified.Inc()
	}
}

func ItemSkipped(reason string) {
	if itemsSkipped != nil {
		itemsSkipped.WithLabelValues(reason).Inc()
	}
}

// DispatchFailed records a failed notification; kind is "announcement"
// or "deadline".
func DispatchFailed(kind string) {
	if dispatchFailures != nil {
		dispatchFailures.WithLabelValues(kind).Inc()
	}
}

func EntriesEvicted(n int) {
	if entriesEvicted != nil {
		entriesEvicted.Add(float64(n))
	}
}

func SetStoreEntries(n int) {
	if storeEntries != nil {
		storeEntries.Set(float64(n))
	}
}
