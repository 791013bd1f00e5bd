package emsgate

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram tracked by [Metrics].
type MetricID uint16

const (
	// MetricRestoreFromCache counts restores resolved from the persisted profile with no network call.
	MetricRestoreFromCache MetricID = iota
	// MetricRestoreProfileFetched counts restores that revalidated the token via the profile endpoint.
	MetricRestoreProfileFetched
	// MetricRestoreUnauthenticated counts restores that resolved with no usable credentials.
	MetricRestoreUnauthenticated
	// MetricRestoreRejectedToken counts restores whose persisted token was rejected or locally expired.
	MetricRestoreRejectedToken
	// MetricLoginSuccess counts credential adoptions via Login.
	MetricLoginSuccess
	// MetricLogout counts explicit logouts, silent or navigating.
	MetricLogout
	// MetricSessionInvalidated counts invalidations triggered by the gateway.
	MetricSessionInvalidated
	// MetricNavigationIssued counts "go to login" commands sent to the Navigator.
	MetricNavigationIssued
	// MetricStoreUnavailable counts degraded credential-store operations.
	MetricStoreUnavailable
	// MetricRequestAuthorized counts outbound requests sent with a bearer header.
	MetricRequestAuthorized
	// MetricRequestAnonymous counts outbound requests sent without a bearer header.
	MetricRequestAnonymous
	// MetricAuthFailureDetected counts responses classified as authentication failures.
	MetricAuthFailureDetected
	// MetricHeuristicAuthFailure counts auth failures detected by the 500-body marker heuristic.
	MetricHeuristicAuthFailure
	// MetricRestoreLatency is the Restore duration histogram.
	MetricRestoreLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed-size, allocation-free counter set. All methods are safe
// for concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all non-zero counters and
// histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics set honoring cfg.Enabled and
// cfg.EnableLatencyHistograms.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// LatencyEnabled reports whether Observe records anything.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Observe records a duration into the histogram for id. Buckets are powers of
// two starting at 1ms; the last bucket is unbounded.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[latencyBucket(d)], 1)
}

func latencyBucket(d time.Duration) int {
	ms := d.Milliseconds()
	bound := int64(1)
	for i := 0; i < histBucketCount-1; i++ {
		if ms < bound {
			return i
		}
		bound *= 2
	}
	return histBucketCount - 1
}

// Snapshot copies the current values. Zero counters and empty histograms are
// omitted.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}
	}
	if m.enableLatency {
		for id := MetricID(0); id < metricIDCount; id++ {
			var total uint64
			buckets := make([]uint64, histBucketCount)
			for i := range buckets {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
				total += buckets[i]
			}
			if total > 0 {
				snap.Histograms[id] = buckets
			}
		}
	}
	return snap
}
