// Package metrics exposes Prometheus metrics for archiving runs.
//
// Metrics are registered on a private registry rather than the global
// default so tests and repeated watch sessions never collide. The watch
// command serves them over HTTP; one-shot runs skip metrics entirely.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "logsweep"

// Collector owns the Prometheus registry and the archiving run metrics.
//
// Metrics:
//   - logsweep_runs_total: Completed runs by status (success, error)
//   - logsweep_files_archived_total: Files written into archives
//   - logsweep_bytes_archived_total: Compressed archive bytes written
//   - logsweep_originals_deleted_total: Originals deleted after archiving
//   - logsweep_archives_pruned_total: Expired archives removed by retention
//   - logsweep_run_duration_seconds: Run duration histogram
//   - logsweep_last_run_timestamp_seconds: Unix time of the last completed run
type Collector struct {
	registry *prometheus.Registry

	runs             *prometheus.CounterVec
	filesArchived    prometheus.Counter
	bytesArchived    prometheus.Counter
	originalsDeleted prometheus.Counter
	archivesPruned   prometheus.Counter
	runDuration      prometheus.Histogram
	lastRun          prometheus.Gauge
}

// NewCollector creates and registers the run metrics. If registry is nil
// a fresh private registry is used.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of completed archiving runs by status",
			},
			[]string{"status"},
		),

		filesArchived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_archived_total",
				Help:      "Total number of files written into archives",
			},
		),

		bytesArchived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_archived_total",
				Help:      "Total compressed archive bytes written",
			},
		),

		originalsDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "originals_deleted_total",
				Help:      "Total number of original files deleted after archiving",
			},
		),

		archivesPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archives_pruned_total",
				Help:      "Total number of expired archives removed by retention",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Archiving run duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last completed archiving run",
			},
		),
	}

	registry.MustRegister(
		c.runs,
		c.filesArchived,
		c.bytesArchived,
		c.originalsDeleted,
		c.archivesPruned,
		c.runDuration,
		c.lastRun,
	)

	return c
}

// RecordRun records a completed run with the given status ("success" or
// "error") and its duration.
func (c *Collector) RecordRun(status string, duration time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
	c.lastRun.SetToCurrentTime()
}

// RecordArchive records a written archive: the number of files it holds
// and its compressed size in bytes.
func (c *Collector) RecordArchive(files int, sizeBytes int64) {
	c.filesArchived.Add(float64(files))
	c.bytesArchived.Add(float64(sizeBytes))
}

// RecordDeleted records originals deleted after a successful archive.
func (c *Collector) RecordDeleted(n int) {
	c.originalsDeleted.Add(float64(n))
}

// RecordPruned records expired archives removed by retention.
func (c *Collector) RecordPruned(n int) {
	c.archivesPruned.Add(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
