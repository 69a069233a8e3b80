package refbridge

import "github.com/prometheus/client_golang/prometheus"

// TrackerCollector exposes a Tracker's bookkeeping state as Prometheus
// metrics. Register it with a prometheus.Registerer:
//
//	prometheus.MustRegister(refbridge.NewTrackerCollector(t))
type TrackerCollector struct {
	t *Tracker

	liveRefs        *prometheus.Desc
	identityEntries *prometheus.Desc
	nextRefnum      *prometheus.Desc
	tableCapacity   *prometheus.Desc
}

func NewTrackerCollector(t *Tracker) *TrackerCollector {
	return &TrackerCollector{
		t: t,

		liveRefs: prometheus.NewDesc(
			"refbridge_live_refs",
			"Number of Go objects currently pinned for the remote runtime",
			nil, nil,
		),
		identityEntries: prometheus.NewDesc(
			"refbridge_identity_entries",
			"Number of identity entries mapping object instances to refnums",
			nil, nil,
		),
		nextRefnum: prometheus.NewDesc(
			"refbridge_next_refnum",
			"Next refnum the allocator will hand out",
			nil, nil,
		),
		tableCapacity: prometheus.NewDesc(
			"refbridge_table_capacity",
			"Backing-array capacity of the reference table",
			nil, nil,
		),
	}
}

func (c *TrackerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveRefs
	ch <- c.identityEntries
	ch <- c.nextRefnum
	ch <- c.tableCapacity
}

func (c *TrackerCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.t.Stats()

	ch <- prometheus.MustNewConstMetric(
		c.liveRefs,
		prometheus.GaugeValue,
		float64(stats.LiveRefs),
	)
	ch <- prometheus.MustNewConstMetric(
		c.identityEntries,
		prometheus.GaugeValue,
		float64(stats.IdentityEntries),
	)
	ch <- prometheus.MustNewConstMetric(
		c.nextRefnum,
		prometheus.GaugeValue,
		float64(stats.NextRefnum),
	)
	ch <- prometheus.MustNewConstMetric(
		c.tableCapacity,
		prometheus.GaugeValue,
		float64(stats.TableCapacity),
	)
}
