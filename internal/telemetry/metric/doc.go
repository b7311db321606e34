// Package metric provides Prometheus metrics for settings persistence.
//
//   - prometheus.go: Registry with the settings collectors and the HTTP handler
//   - collector.go: per-session collector fed by live sessions
//
// Every Registry owns a private prometheus.Registry so tests and
// multiple sessions never collide on registration. All recording methods
// accept a nil *Registry and do nothing.
package metric
