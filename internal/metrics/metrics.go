// ABOUTME: Prometheus metrics for a synchronization run
// ABOUTME: Per-run registry, Notion call observer and Pushgateway export
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

const (
	namespace = "rotina"
	jobName   = "automacao_rotina"
)

// Record kinds.
const (
	KindSummary = "summary"
	KindRoutine = "routine"
)

// Recorder owns the collectors for one run. It is not registered globally so
// that a run can be pushed as a whole. lastSuccess joins the registry only
// once a run succeeds.
type Recorder struct {
	registry  *prometheus.Registry
	succeeded bool

	recordsCreated *prometheus.CounterVec
	recordsReused  *prometheus.CounterVec
	apiCalls       *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	activities     prometheus.Gauge
	lastSuccess    prometheus.Gauge
	runDuration    prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_created_total",
			Help:      "Pages created by the run, by kind.",
		}, []string{"kind"}),
		recordsReused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_reused_total",
			Help:      "Existing pages found and reused by the run, by kind.",
		}, []string{"kind"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notion",
			Name:      "requests_total",
			Help:      "Notion API requests by operation and HTTP status.",
		}, []string{"operation", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notion",
			Name:      "request_duration_seconds",
			Help:      "Notion API request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		activities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "activities_scheduled",
			Help:      "Active activities scheduled for the synchronized day.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful run.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}

	r.registry.MustRegister(
		r.recordsCreated,
		r.recordsReused,
		r.apiCalls,
		r.apiLatency,
		r.activities,
		r.runDuration,
	)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordCreated counts a created page of kind.
func (r *Recorder) RecordCreated(kind string) {
	r.recordsCreated.WithLabelValues(kind).Inc()
}

// RecordReused counts an existing page of kind that was reused.
func (r *Recorder) RecordReused(kind string) {
	r.recordsReused.WithLabelValues(kind).Inc()
}

// RecordActivities sets the number of activities fetched for the day.
func (r *Recorder) RecordActivities(n int) {
	r.activities.Set(float64(n))
}

// RecordRun stores the run duration and, on success, the completion time.
func (r *Recorder) RecordRun(started time.Time, err error) {
	r.runDuration.Set(time.Since(started).Seconds())
	if err != nil {
		return
	}
	if !r.succeeded {
		r.registry.MustRegister(r.lastSuccess)
		r.succeeded = true
	}
	r.lastSuccess.SetToCurrentTime()
}

// OnCall implements notion.Observer.
func (r *Recorder) OnCall(event notion.CallEvent) {
	status := strconv.Itoa(event.Status)
	if event.Status == 0 {
		status = "error"
	}
	r.apiCalls.WithLabelValues(event.Operation, status).Inc()
	r.apiLatency.WithLabelValues(event.Operation).Observe(event.Duration.Seconds())
}

// Push sends the registry to a Prometheus Pushgateway. A successful run
// replaces the job's group (PUT); any other run only updates the metrics it
// carries (POST), so the stored last-success time survives a failure.
// A blank url is a no-op.
func (r *Recorder) Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	pusher := push.New(url, jobName).Gatherer(r.registry)

	var err error
	if r.succeeded {
		err = pusher.PushContext(ctx)
	} else {
		err = pusher.AddContext(ctx)
	}
	if err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
