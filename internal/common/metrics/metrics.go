// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/models"
)

// Surfaces a take can be requested through.
const (
	SurfaceCLI    = "cli"
	SurfaceHTTP   = "http"
	SurfaceWorker = "worker"
)

var (
	TakesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hot_takes_generated_total",
			Help: "Total number of hot takes generated",
		},
		[]string{"surface", "has_images"},
	)

	TakeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hot_take_failures_total",
			Help: "Total number of failed hot take generations",
		},
		[]string{"surface", "error_code"},
	)

	TakeImages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hot_take_images",
			Help:    "Images attached to each generated take",
			Buckets: []float64{0, 1, 2, 3, 4},
		},
	)

	TakeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hot_take_generation_duration_seconds",
			Help: "Duration of hot take generation in seconds",
		},
		[]string{"surface"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// RecordTake updates the take counters for one Generate call.
func RecordTake(surface string, result *models.HotTakeResult, err error, elapsed time.Duration) {
	TakeDuration.WithLabelValues(surface).Observe(elapsed.Seconds())
	if err != nil {
		TakeFailures.WithLabelValues(surface, string(errors.CodeOf(err))).Inc()
		return
	}
	TakesGenerated.WithLabelValues(surface, strconv.FormatBool(result.HasImages())).Inc()
	TakeImages.Observe(float64(len(result.Images)))
}
