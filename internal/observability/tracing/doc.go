// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware starts a server span per HTTP request and returns the trace ID in
// the X-Trace-Id header. Engine wraps the execution engine so every store call
// becomes a client span under the request span.
//
// Example usage:
//
//	engine := tracing.NewEngine(base, "postgres")
//	handler := tracing.Middleware(mux)
package tracing
