// Package otel provides OpenTelemetry metric exporter bindings for the
// authorization engine's counters and latency histogram.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// engine metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [keystoreauth.Engine.MetricsSnapshot] on each collection
// cycle, so export cost is paid at scrape time, never on the decision path.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
