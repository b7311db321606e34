package metric

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionStats is a point-in-time view of one session's persistence
// state.
type SessionStats struct {
	Account     string
	PendingSave bool
	LastWrite   int64 // Unix seconds, 0 if never written
}

// SessionSource reports stats for a live session.
type SessionSource interface {
	SessionStats() SessionStats
}

// sessionCollector exports gauges for every tracked session at scrape
// time.
type sessionCollector struct {
	mu      sync.Mutex
	next    int
	sources map[int]SessionSource

	pendingDesc   *prometheus.Desc
	lastWriteDesc *prometheus.Desc
}

func newSessionCollector() *sessionCollector {
	return &sessionCollector{
		sources: make(map[int]SessionSource),
		pendingDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "pending_save"),
			"1 if the session has a deferred settings write armed.",
			[]string{"account"}, nil,
		),
		lastWriteDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "last_write_timestamp_seconds"),
			"Unix time of the last successful settings write.",
			[]string{"account"}, nil,
		),
	}
}

func (c *sessionCollector) add(src SessionSource) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.sources[id] = src

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.sources, id)
			c.mu.Unlock()
		})
	}
}

// Describe implements prometheus.Collector.
func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pendingDesc
	ch <- c.lastWriteDesc
}

// Collect implements prometheus.Collector.
func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	sources := make([]SessionSource, 0, len(c.sources))
	for _, src := range c.sources {
		sources = append(sources, src)
	}
	c.mu.Unlock()

	for _, src := range sources {
		st := src.SessionStats()
		pending := 0.0
		if st.PendingSave {
			pending = 1
		}
		ch <- prometheus.MustNewConstMetric(c.pendingDesc, prometheus.GaugeValue, pending, st.Account)
		ch <- prometheus.MustNewConstMetric(c.lastWriteDesc, prometheus.GaugeValue, float64(st.LastWrite), st.Account)
	}
}
