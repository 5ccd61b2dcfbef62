// Package metrics exports cache activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lrucache/internal/cache"
)

// StatsSource is the read side of a cache that the collector scrapes.
type StatsSource interface {
	Stats() cache.Stats
	Len() int
	Limit() int
}

// CacheCollector is a prometheus.Collector reading a cache at scrape time.
type CacheCollector struct {
	src StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	limit     *prometheus.Desc
}

// NewCacheCollector returns a collector for src. Every series carries a
// constant "cache" label set to name.
func NewCacheCollector(namespace, name string, src StatsSource) *CacheCollector {
	labels := prometheus.Labels{"cache": name}
	desc := func(metric, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metric), help, variable, labels)
	}

	return &CacheCollector{
		src:       src,
		hits:      desc("hits_total", "Lookups that found a live entry."),
		misses:    desc("misses_total", "Lookups that found no live entry."),
		evictions: desc("evictions_total", "Entries removed from the cache, by reason.", "reason"),
		entries:   desc("entries", "Entries currently stored, including expired ones not yet swept."),
		limit:     desc("limit", "Maximum number of entries."),
	}
}

func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.limit
}

func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), "capacity")
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Expirations), "expired")
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.ResizeEvictions), "resize")
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(c.src.Limit()))
}

// NewRegistry returns a registry with the Go runtime and process collectors
// plus the given collectors.
func NewRegistry(cs ...prometheus.Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(cs...)
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
