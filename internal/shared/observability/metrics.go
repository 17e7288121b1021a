package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ranger_scan_seconds",
		Help:    "Time spent scanning the source units of one project.",
		Buckets: prometheus.DefBuckets,
	}, []string{"project"})

	UnitsScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranger_units_scanned_total",
		Help: "Total number of source units handed to the declaration scanner.",
	})

	DeclarationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranger_declarations_total",
		Help: "Total number of object declarations extracted across all passes.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ranger_analysis_seconds",
		Help:    "Time spent on one analysis task (gaps, conflicts, merge).",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	ObjectConflicts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ranger_object_conflicts",
		Help: "Whole-object conflicts found in the most recent pass.",
	})

	ChildConflicts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ranger_child_conflicts",
		Help: "Field/value conflicts found in the most recent pass.",
	}, []string{"kind"})

	FreeIdentifiers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ranger_free_identifiers",
		Help: "Free identifiers remaining inside the configured ranges.",
	}, []string{"project"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranger_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	PassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranger_passes_total",
		Help: "Total number of completed analysis passes.",
	})
)
