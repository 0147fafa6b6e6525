package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chancrawl"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeExcluded = "excluded"
	OutcomeNotFound = "not_found"
)

// Recorder collects crawl counters. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry
	pages    *prometheus.CounterVec
	threads  *prometheus.CounterVec
	media    *prometheus.CounterVec
	bytes    prometheus.Counter
	duration prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Listing pages fetched, by page kind and outcome.",
		}, []string{"kind", "outcome"}),
		threads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_total",
			Help:      "Threads processed, by outcome.",
		}, []string{"outcome"}),
		media: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_total",
			Help:      "Media files processed, by outcome.",
		}, []string{"outcome"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_bytes_total",
			Help:      "Bytes of media written to disk.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
	}

	r.registry.MustRegister(r.pages, r.threads, r.media, r.bytes, r.duration)
	return r
}

// Registry returns the registry holding the crawl metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// PageFetched counts one listing page fetch.
func (r *Recorder) PageFetched(kind string, err error) {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(kind, outcome(err)).Inc()
}

// Thread counts one processed thread.
func (r *Recorder) Thread(outcome string) {
	if r == nil {
		return
	}
	r.threads.WithLabelValues(outcome).Inc()
}

// MediaSaved counts one written media file of size bytes.
func (r *Recorder) MediaSaved(size int) {
	if r == nil {
		return
	}
	r.media.WithLabelValues(OutcomeOK).Inc()
	r.bytes.Add(float64(size))
}

// MediaFailed counts one media file that could not be saved.
func (r *Recorder) MediaFailed(error) {
	if r == nil {
		return
	}
	r.media.WithLabelValues(OutcomeError).Inc()
}

// ObserveRun records the run duration.
func (r *Recorder) ObserveRun(d time.Duration) {
	if r == nil {
		return
	}
	r.duration.Set(d.Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
