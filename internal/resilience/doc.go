// Package resilience provides reliability and fault tolerance patterns for the application.
//
// The circuitbreaker subpackage wraps the execution engine so that a failing
// store is short-circuited instead of being hammered by every request:
//
//	engine := circuitbreaker.NewEngine(base, circuitbreaker.EngineConfig())
//	repo := repository.NewArticleRepo(engine, ids)
//
// Failed operations are not retried; errors surface to the caller unchanged.
package resilience
