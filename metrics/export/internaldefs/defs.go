package internaldefs

import (
	"github.com/emstack/emsgate"
)

// CounterDef names one session counter for export.
type CounterDef struct {
	ID   emsgate.MetricID
	Name string
	Help string
}

// HistogramDef names one latency histogram for export.
type HistogramDef struct {
	ID   emsgate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a fixed order.
var CounterDefs = []CounterDef{
	{ID: emsgate.MetricRestoreFromCache, Name: "emsgate_restore_from_cache_total", Help: "Restores resolved from the persisted profile without a network call."},
	{ID: emsgate.MetricRestoreProfileFetched, Name: "emsgate_restore_profile_fetched_total", Help: "Restores that revalidated the token via the profile endpoint."},
	{ID: emsgate.MetricRestoreUnauthenticated, Name: "emsgate_restore_unauthenticated_total", Help: "Restores that resolved with no usable credentials."},
	{ID: emsgate.MetricRestoreRejectedToken, Name: "emsgate_restore_rejected_token_total", Help: "Restores whose persisted token was rejected or locally expired."},
	{ID: emsgate.MetricLoginSuccess, Name: "emsgate_login_success_total", Help: "Credential adoptions via Login."},
	{ID: emsgate.MetricLogout, Name: "emsgate_logout_total", Help: "Explicit logouts, silent or navigating."},
	{ID: emsgate.MetricSessionInvalidated, Name: "emsgate_session_invalidated_total", Help: "Invalidations triggered by the transport."},
	{ID: emsgate.MetricNavigationIssued, Name: "emsgate_navigation_issued_total", Help: "Navigations to the login surface."},
	{ID: emsgate.MetricStoreUnavailable, Name: "emsgate_store_unavailable_total", Help: "Degraded credential-store operations."},
	{ID: emsgate.MetricRequestAuthorized, Name: "emsgate_request_authorized_total", Help: "Outbound requests sent with a bearer header."},
	{ID: emsgate.MetricRequestAnonymous, Name: "emsgate_request_anonymous_total", Help: "Outbound requests sent without a bearer header."},
	{ID: emsgate.MetricAuthFailureDetected, Name: "emsgate_auth_failure_detected_total", Help: "Responses classified as authentication failures."},
	{ID: emsgate.MetricHeuristicAuthFailure, Name: "emsgate_heuristic_auth_failure_total", Help: "Auth failures detected by the 500-body marker heuristic."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: emsgate.MetricRestoreLatency, Name: "emsgate_restore_latency_seconds", Help: "Restore latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds. Buckets are powers
// of two starting at one millisecond, matching the recorder.
var HistogramBounds = []string{
	"0.001",
	"0.002",
	"0.004",
	"0.008",
	"0.016",
	"0.032",
	"0.064",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe spellings of HistogramBounds.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_002",
	"0_004",
	"0_008",
	"0_016",
	"0_032",
	"0_064",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms use.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
