package metrics

import (
	"context"
	"time"

	"article-store/internal/repository"
)

// Engine records Prometheus metrics for every call it forwards to the wrapped engine.
type Engine struct {
	next repository.Engine
}

// NewEngine wraps next with engine metrics.
func NewEngine(next repository.Engine) *Engine {
	return &Engine{next: next}
}

var _ repository.Engine = (*Engine)(nil)

func (e *Engine) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	start := time.Now()
	rows, err := e.next.Insert(ctx, table, values)
	RecordEngineOperation(table, "insert", time.Since(start), err)
	return rows, err
}

func (e *Engine) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	start := time.Now()
	row, err := e.next.SelectOne(ctx, table, where)
	RecordEngineOperation(table, "select_one", time.Since(start), err)
	return row, err
}

func (e *Engine) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	start := time.Now()
	rows, err := e.next.SelectMany(ctx, table, q)
	RecordEngineOperation(table, "select_many", time.Since(start), err)
	return rows, err
}
