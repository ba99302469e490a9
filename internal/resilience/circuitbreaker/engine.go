package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"article-store/internal/repository"
)

// EngineCircuitBreaker wraps an execution engine with circuit breaker protection.
// It prevents cascading failures when the store becomes unavailable or slow.
type EngineCircuitBreaker struct {
	cb   *CircuitBreaker
	next repository.Engine
}

// EngineConfig returns configuration optimized for the execution engine.
// Opens after 5 consecutive failures, 30 second timeout.
func EngineConfig() Config {
	return Config{
		Name:             "engine",
		MaxRequests:      3, // Allow 3 test requests in half-open state
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0, // Open on 100% failure (5+ consecutive failures)
		MinRequests:      5,   // Require 5 failures before tripping
		IsSuccessful:     isEngineSuccess,
	}
}

// isEngineSuccess treats caller-side outcomes as healthy store responses:
// a canceled request or a key violation says nothing about store availability.
func isEngineSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, repository.ErrConstraint)
}

// NewEngine wraps next with a circuit breaker configured by cfg.
// A nil IsSuccessful in cfg falls back to the engine classification.
func NewEngine(next repository.Engine, cfg Config) *EngineCircuitBreaker {
	if cfg.IsSuccessful == nil {
		cfg.IsSuccessful = isEngineSuccess
	}
	return &EngineCircuitBreaker{
		cb:   New(cfg),
		next: next,
	}
}

var _ repository.Engine = (*EngineCircuitBreaker)(nil)

// Insert executes an insert with circuit breaker protection.
// If the circuit is open, it returns ErrOpenState immediately without reaching the store.
func (ecb *EngineCircuitBreaker) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	result, err := ecb.cb.Execute(func() (interface{}, error) {
		return ecb.next.Insert(ctx, table, values)
	})
	if err != nil {
		return nil, err
	}
	return result.([]repository.Row), nil
}

// SelectOne executes a single-row lookup with circuit breaker protection.
func (ecb *EngineCircuitBreaker) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	result, err := ecb.cb.Execute(func() (interface{}, error) {
		return ecb.next.SelectOne(ctx, table, where)
	})
	if err != nil {
		return nil, err
	}
	return result.(repository.Row), nil
}

// SelectMany executes a multi-row query with circuit breaker protection.
func (ecb *EngineCircuitBreaker) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	result, err := ecb.cb.Execute(func() (interface{}, error) {
		return ecb.next.SelectMany(ctx, table, q)
	})
	if err != nil {
		return nil, err
	}
	return result.([]repository.Row), nil
}

// State returns the current state of the circuit breaker.
func (ecb *EngineCircuitBreaker) State() gobreaker.State {
	return ecb.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (ecb *EngineCircuitBreaker) IsOpen() bool {
	return ecb.cb.IsOpen()
}
