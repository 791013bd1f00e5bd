// Package prometheus renders session metrics in Prometheus text format.
//
// [NewPrometheusExporter] accepts an [emsgate.Controller] and exposes an
// [http.Handler] that renders all counters and histograms in Prometheus text
// exposition format. Counter names are prefixed emsgate_*_total; the single
// histogram is emsgate_restore_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate controller state.
package prometheus
