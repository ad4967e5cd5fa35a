package export

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the export pipeline.
type Metrics struct {
	Registry            *prometheus.Registry
	RunsTotal           prometheus.Counter
	RunDuration         prometheus.Histogram
	BooksProcessedTotal prometheus.Counter
	BooksFailedTotal    prometheus.Counter
	AnnotationsTotal    prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weread_export_runs_total",
		Help: "Total export runs started.",
	})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weread_export_run_duration_seconds",
		Help:    "Wall-clock duration of export runs.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	booksProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weread_export_books_processed_total",
		Help: "Total books aggregated into export batches.",
	})
	booksFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weread_export_books_failed_total",
		Help: "Total books skipped because of per-book failures.",
	})
	annotations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weread_export_annotations_total",
		Help: "Total highlights and notes merged into export batches.",
	})

	registry.MustRegister(runs, runDuration, booksProcessed, booksFailed, annotations)

	return &Metrics{
		Registry:            registry,
		RunsTotal:           runs,
		RunDuration:         runDuration,
		BooksProcessedTotal: booksProcessed,
		BooksFailedTotal:    booksFailed,
		AnnotationsTotal:    annotations,
	}
}

// IncRun increments the run counter.
func (m *Metrics) IncRun() {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
}

// ObserveRun records a run's duration.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// IncBook increments the processed-book counter.
func (m *Metrics) IncBook() {
	if m == nil {
		return
	}
	m.BooksProcessedTotal.Inc()
}

// IncBookFailed increments the skipped-book counter.
func (m *Metrics) IncBookFailed() {
	if m == nil {
		return
	}
	m.BooksFailedTotal.Inc()
}

// AddAnnotations adds to the merged-annotation counter.
func (m *Metrics) AddAnnotations(n int) {
	if m == nil {
		return
	}
	m.AnnotationsTotal.Add(float64(n))
}
