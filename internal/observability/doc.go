// Package observability provides production-grade observability infrastructure
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry, recorders and the engine decorator
//   - tracing: OpenTelemetry HTTP middleware and the engine decorator
//
// Example usage:
//
//	import (
//	    "article-store/internal/observability/logging"
//	    "article-store/internal/observability/metrics"
//	    "article-store/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger := logging.NewLoggerWithLevel("info")
//	    logger.Info("application started")
//
//	    engine := tracing.NewEngine(metrics.NewEngine(base), "sqlite")
//	}
package observability
