// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (articles created, comments added)
//   - Execution engine metrics (operations by table and status)
//   - SQL connection pool gauges
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "article-store/internal/observability/metrics"
//
//	engine := metrics.NewEngine(base)
//	repo := repository.NewArticleRepo(engine, ids)
package metrics
