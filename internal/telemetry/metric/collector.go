package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/cow"
)

// SizeFunc reports the current item count of a container.
type SizeFunc func() (int, error)

type sourceKey struct {
	variant string
	shape   string
}

// Collector samples container sizes at scrape time and exports them as
// collstress_container_items.
type Collector struct {
	desc    *prometheus.Desc
	sources *cow.Map[sourceKey, SizeFunc]
}

// NewCollector creates a collector with no sources.
func NewCollector() *Collector {
	return &Collector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "container_items"),
			"Items currently held by a container under load.",
			[]string{"variant", "shape"}, nil,
		),
		sources: cow.NewMap[sourceKey, SizeFunc](),
	}
}

// Track registers fn as the size source for a variant/shape pair,
// replacing any previous one.
func (c *Collector) Track(variant, shape string, fn SizeFunc) {
	_ = c.sources.Set(sourceKey{variant, shape}, fn)
}

// Untrack removes the size source for a variant/shape pair.
func (c *Collector) Untrack(variant, shape string) {
	_, _ = c.sources.Remove(sourceKey{variant, shape})
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. Sources that fail, such as a
// disposed container, are skipped.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for key, fn := range c.sources.All() {
		n, err := fn()
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), key.variant, key.shape)
	}
}
