// Package metric provides Prometheus metrics for collstress.
//
//   - prometheus.go: the Registry of workload counters and histograms
//   - collector.go: a scrape-time collector sampling live container sizes
//
// Every Registry owns a private prometheus.Registry, so tests and parallel
// runs never collide on the default registerer. Handler serves it in the
// Prometheus text format.
package metric
