package prometheus

import (
	"net/http"

	otpAuth "github.com/MrEthical07/otpAuth"
	"github.com/MrEthical07/otpAuth/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSource interface {
	MetricsSnapshot() otpAuth.MetricsSnapshot
	EventsDropped() uint64
}

// Exporter is a [prometheus.Collector] reading Engine snapshots at scrape
// time.
type Exporter struct {
	source     metricsSource
	counters   []*prometheus.Desc
	histograms []*prometheus.Desc
	dropped    *prometheus.Desc
}

var _ prometheus.Collector = (*Exporter)(nil)

// NewExporter creates an exporter reading from engine.
func NewExporter(engine *otpAuth.Engine) *Exporter {
	return NewExporterFromSource(engine)
}

// NewExporterFromSource creates an exporter from any snapshot source.
func NewExporterFromSource(source metricsSource) *Exporter {
	e := &Exporter{
		source:     source,
		counters:   make([]*prometheus.Desc, len(internaldefs.CounterDefs)),
		histograms: make([]*prometheus.Desc, len(internaldefs.HistogramDefs)),
		dropped: prometheus.NewDesc(
			"otpauth_events_dropped_total",
			"Dropped events due to dispatcher backpressure.",
			nil, nil,
		),
	}
	for i, def := range internaldefs.CounterDefs {
		e.counters[i] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	for i, def := range internaldefs.HistogramDefs {
		e.histograms[i] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	return e
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range e.counters {
		ch <- d
	}
	for _, d := range e.histograms {
		ch <- d
	}
	ch <- e.dropped
}

// Collect emits nothing when the source has metrics disabled and no drops.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	if e == nil || e.source == nil {
		return
	}

	snapshot := e.source.MetricsSnapshot()
	dropped := e.source.EventsDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return
	}

	for i, def := range internaldefs.CounterDefs {
		ch <- prometheus.MustNewConstMetric(e.counters[i], prometheus.CounterValue, float64(snapshot.Counters[def.ID]))
	}

	for i, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for j, le := range internaldefs.HistogramUpperBounds {
			buckets[le] = cumulative[j]
		}
		count := cumulative[len(cumulative)-1]
		sum := snapshot.HistogramSums[def.ID].Seconds()
		ch <- prometheus.MustNewConstHistogram(e.histograms[i], count, sum, buckets)
	}

	ch <- prometheus.MustNewConstMetric(e.dropped, prometheus.CounterValue, float64(dropped))
}

// Handler registers the exporter in a private registry and serves it.
// Go runtime and process collectors are not included.
func (e *Exporter) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
