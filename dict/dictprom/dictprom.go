// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dictprom exposes a dict's runtime stats as prometheus metrics, the
// same role ocprometheus's collector plays for gNMI updates: translate a
// live data source into prometheus.Metric on every scrape rather than
// pushing updates as they happen.
package dictprom

import "github.com/prometheus/client_golang/prometheus"

// StatsSource is anything dict.Dict[K, V] implements, kept narrow so
// Collector does not need to be generic over K/V itself.
type StatsSource interface {
	Len() int
	Buckets() int
	ContainerMemoryUsage() uint64
}

// Collector implements prometheus.Collector for a single named dict, to be
// registered once per shard or per keyspace.
type Collector struct {
	source StatsSource

	entries     *prometheus.Desc
	buckets     *prometheus.Desc
	memoryBytes *prometheus.Desc
}

// New builds a Collector reporting source's stats as dict_entries,
// dict_buckets and dict_memory_usage_bytes, each labeled dict="name" so
// multiple shards can share one registry.
func New(name string, source StatsSource) *Collector {
	labels := prometheus.Labels{"dict": name}
	return &Collector{
		source: source,
		entries: prometheus.NewDesc(
			"dict_entries", "Number of entries currently stored.", nil, labels),
		buckets: prometheus.NewDesc(
			"dict_buckets", "Number of buckets currently allocated.", nil, labels),
		memoryBytes: prometheus.NewDesc(
			"dict_memory_usage_bytes", "Estimated bytes held by buckets and entries.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.buckets
	ch <- c.memoryBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(c.source.Buckets()))
	ch <- prometheus.MustNewConstMetric(c.memoryBytes, prometheus.GaugeValue, float64(c.source.ContainerMemoryUsage()))
}
