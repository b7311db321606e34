package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tdesktop"

// Write results recorded by RecordWrite.
const (
	WriteOK        = "ok"
	WriteFailed    = "error"
	WriteUnchanged = "unchanged"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	DecodeTotal   *prometheus.CounterVec
	WritesTotal   *prometheus.CounterVec
	WriteDuration prometheus.Histogram
	SaveScheduled prometheus.Counter
	SaveCoalesced prometheus.Counter
	BlobBytes     prometheus.Gauge

	sessions *sessionCollector
}

// NewRegistry creates a registry with the settings collectors and the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		DecodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "decode_total",
			Help:      "Settings blob decodes by result.",
		}, []string{"result"}),

		WritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "writes_total",
			Help:      "Settings persistence attempts by result.",
		}, []string{"result"}),

		WriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "write_duration_seconds",
			Help:      "Latency of settings writes to durable storage.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),

		SaveScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "save_scheduled_total",
			Help:      "Deferred saves requested.",
		}),

		SaveCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "save_coalesced_total",
			Help:      "Deferred saves that replaced a pending one.",
		}),

		BlobBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "blob_bytes",
			Help:      "Size of the last serialized settings blob.",
		}),

		sessions: newSessionCollector(),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.DecodeTotal,
		r.WritesTotal,
		r.WriteDuration,
		r.SaveScheduled,
		r.SaveCoalesced,
		r.BlobBytes,
		r.sessions,
	)

	return r
}

// Registerer exposes the underlying registry for components that register
// their own collectors, such as the Badger engine.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry in Prometheus
// text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordDecode counts one decode with its result label.
func (r *Registry) RecordDecode(result string) {
	if r == nil {
		return
	}
	r.DecodeTotal.WithLabelValues(result).Inc()
}

// RecordWrite counts one write attempt. Duration is observed only for
// attempts that reached storage.
func (r *Registry) RecordWrite(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.WritesTotal.WithLabelValues(result).Inc()
	if result != WriteUnchanged {
		r.WriteDuration.Observe(d.Seconds())
	}
}

// IncSaveScheduled counts a deferred save request.
func (r *Registry) IncSaveScheduled() {
	if r == nil {
		return
	}
	r.SaveScheduled.Inc()
}

// IncSaveCoalesced counts a deferred save that replaced a pending one.
func (r *Registry) IncSaveCoalesced() {
	if r == nil {
		return
	}
	r.SaveCoalesced.Inc()
}

// SetBlobBytes records the size of the latest serialized blob.
func (r *Registry) SetBlobBytes(n int) {
	if r == nil {
		return
	}
	r.BlobBytes.Set(float64(n))
}

// TrackSession adds src to the per-session collector until the returned
// func is called.
func (r *Registry) TrackSession(src SessionSource) (untrack func()) {
	if r == nil {
		return func() {}
	}
	return r.sessions.add(src)
}
