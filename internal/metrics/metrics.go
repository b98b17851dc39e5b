package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID indexes a counter slot.
type MetricID uint16

const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterDuplicateUsername
	MetricRegisterDuplicatePublicKey
	MetricRegisterInvalid
	MetricOTPGenerated
	MetricOTPUnknownUser
	MetricAuthSuccess
	MetricAuthInvalid
	MetricAuthReplay
	MetricAuthUnknownPublicKey
	MetricAuthRateLimited
	MetricAssertionIssued
	MetricAssertionRejected
	MetricStoreError
	MetricAuthenticateLatency
	MetricIDCount
)

const (
	HistBucketCount = 8
	cacheLineSize   = 64
)

type histogram struct {
	buckets [HistBucketCount]uint64
	sumNs   uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Config switches collection on.
type Config struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricIDCount]paddedCounter
	histograms    [MetricIDCount]histogram
}

// Snapshot is a point-in-time copy. Histogram buckets are non-cumulative.
type Snapshot struct {
	Counters      map[MetricID]uint64
	Histograms    map[MetricID][]uint64
	HistogramSums map[MetricID]time.Duration
}

func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the latency histogram. Only MetricAuthenticateLatency
// carries a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricAuthenticateLatency {
		return
	}
	if d < 0 {
		d = 0
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
	atomic.AddUint64(&m.histograms[id].sumNs, uint64(d))
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{
			Counters:      map[MetricID]uint64{},
			Histograms:    map[MetricID][]uint64{},
			HistogramSums: map[MetricID]time.Duration{},
		}
	}

	s := Snapshot{
		Counters:      make(map[MetricID]uint64, int(MetricIDCount)),
		Histograms:    make(map[MetricID][]uint64, 1),
		HistogramSums: make(map[MetricID]time.Duration, 1),
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if id == MetricAuthenticateLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		h := &m.histograms[MetricAuthenticateLatency]
		buckets := make([]uint64, HistBucketCount)
		for i := 0; i < HistBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&h.buckets[i])
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
		s.HistogramSums[MetricAuthenticateLatency] = time.Duration(atomic.LoadUint64(&h.sumNs))
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
