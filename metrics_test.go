package emsgate

import (
	"testing"
	"time"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLogout)

	snap := m.Snapshot()
	if got := snap.Counters[MetricLoginSuccess]; got != 2 {
		t.Fatalf("login_success = %d, want 2", got)
	}
	if got := snap.Counters[MetricLogout]; got != 1 {
		t.Fatalf("logout = %d, want 1", got)
	}
	if _, ok := snap.Counters[MetricRestoreFromCache]; ok {
		t.Fatal("zero counters must be omitted from snapshots")
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRestoreLatency, time.Millisecond)

	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled metrics must stay empty, got %+v", snap)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRestoreLatency, time.Millisecond)
	if m.LatencyEnabled() {
		t.Fatal("nil metrics must report latency disabled")
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("nil snapshot must be empty, got %+v", snap)
	}
}

func TestLatencyBucketBounds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{500 * time.Microsecond, 0},
		{time.Millisecond, 1},
		{3 * time.Millisecond, 2},
		{7 * time.Millisecond, 3},
		{40 * time.Millisecond, 6},
		{100 * time.Millisecond, 7},
		{time.Hour, 7},
	}
	for _, tt := range tests {
		if got := latencyBucket(tt.d); got != tt.want {
			t.Fatalf("latencyBucket(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestObserveRecordsHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	if !m.LatencyEnabled() {
		t.Fatal("expected latency enabled")
	}

	m.Observe(MetricRestoreLatency, 500*time.Microsecond)
	m.Observe(MetricRestoreLatency, 3*time.Millisecond)
	m.Observe(MetricRestoreLatency, time.Second)

	buckets := m.Snapshot().Histograms[MetricRestoreLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	if buckets[0] != 1 || buckets[2] != 1 || buckets[histBucketCount-1] != 1 {
		t.Fatalf("unexpected bucket distribution: %v", buckets)
	}
}
