package object

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ArenaCollector exposes arena occupancy to Prometheus.
type ArenaCollector struct {
	arena *Arena

	live     *prometheus.Desc
	made     *prometheus.Desc
	watchers *prometheus.Desc
}

// NewArenaCollector returns a collector reporting on arena.
func NewArenaCollector(arena *Arena) *ArenaCollector {
	return &ArenaCollector{
		arena: arena,

		live: prometheus.NewDesc(
			"object_arena_live_identities",
			"Number of live object identities in the arena",
			nil, nil,
		),
		made: prometheus.NewDesc(
			"object_arena_made_total",
			"Total number of objects created by the arena",
			nil, nil,
		),
		watchers: prometheus.NewDesc(
			"object_arena_watchers",
			"Number of commit watchers registered on the arena",
			nil, nil,
		),
	}
}

func (c *ArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.live
	ch <- c.made
	ch <- c.watchers
}

func (c *ArenaCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(c.arena.Len()))
	ch <- prometheus.MustNewConstMetric(c.made, prometheus.CounterValue, float64(c.arena.Made()))
	ch <- prometheus.MustNewConstMetric(c.watchers, prometheus.GaugeValue, float64(c.arena.Watchers()))
}
