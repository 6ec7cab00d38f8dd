package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_batches_submitted_total",
		Help: "Total number of batches submitted to the scheduler",
	})

	TasksGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_tasks_generated_total",
		Help: "Total number of fetch tasks generated",
	})

	FetchesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_fetches_completed_total",
		Help: "Total number of measurements fetched and archived",
	})

	FetchesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_fetches_skipped_total",
		Help: "Total number of fetches skipped because the artifact already existed",
	})

	FetchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_fetches_failed_total",
		Help: "Total number of failed fetch attempts",
	})

	FilesPacked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_files_packed_total",
		Help: "Total number of files packed into archives",
	})

	BytesMirrored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellpainting_bytes_mirrored_total",
		Help: "Total bytes mirrored from object storage",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cellpainting_fetch_duration_seconds",
		Help:    "Fetch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
