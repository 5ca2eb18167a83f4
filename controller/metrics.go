package controller

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Septrum101/cfddns/app/reconciler"
	"github.com/Septrum101/cfddns/common/ddns"
)

// metrics live in a registry per server, a reloaded server starts from zero.
type metrics struct {
	registry    *prometheus.Registry
	passes      *prometheus.CounterVec
	operations  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
	records     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cfddns_passes_total",
			Help: "Total number of update passes by result.",
		}, []string{"result"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cfddns_record_operations_total",
			Help: "Total number of record operations by type and result.",
		}, []string{"op", "result"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cfddns_record_failures_total",
			Help: "Total number of failed record operations by type and error kind.",
		}, []string{"op", "kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cfddns_pass_duration_seconds",
			Help:    "Duration of update passes in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		records: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cfddns_records_managed",
			Help: "Number of records kept on the public IP.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cfddns_last_success_timestamp_seconds",
			Help: "Unix time of the last pass without failures.",
		}),
	}
}

// observe records a pass. Updates of a dry run are counted as dry_run, no
// record was written.
func (m *metrics) observe(res *reconciler.Result, err error, d time.Duration, dryRun bool) {
	m.duration.Observe(d.Seconds())

	switch {
	case res == nil:
		m.passes.WithLabelValues("error").Inc()
		return
	case err != nil:
		m.passes.WithLabelValues("partial").Inc()
	default:
		m.passes.WithLabelValues("success").Inc()
		m.lastSuccess.SetToCurrentTime()
	}

	m.operations.WithLabelValues("fetch", "success").Add(float64(len(res.Discovered)))
	updated := "success"
	if dryRun {
		updated = "dry_run"
	}
	m.operations.WithLabelValues("update", updated).Add(float64(len(res.Updated)))

	for _, e := range res.Failed {
		var re *ddns.RecordError
		if errors.As(e, &re) {
			m.operations.WithLabelValues(re.Op, "failure").Inc()
			m.failures.WithLabelValues(re.Op, kindLabel(re.Err)).Inc()
		}
	}
}

func kindLabel(err error) string {
	switch ddns.Kind(err) {
	case ddns.ErrNetwork:
		return "network"
	case ddns.ErrAuth:
		return "auth"
	case ddns.ErrNotFound:
		return "not_found"
	case ddns.ErrFormat:
		return "format"
	case ddns.ErrProvider:
		return "provider"
	case ddns.ErrStorage:
		return "storage"
	default:
		return "unknown"
	}
}

func (m *metrics) writeTo(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
