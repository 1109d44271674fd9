// Package observe provides the telemetry surface for the tool resilience
// layer: OpenTelemetry tracing and metrics plus structured JSON logging.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The executor records pipeline outcomes through it;
// hosting applications own the Observer lifecycle.
package observe
