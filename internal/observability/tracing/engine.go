package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"article-store/internal/repository"
)

// Engine starts a client span around every execution engine call.
type Engine struct {
	next   repository.Engine
	system string
}

// NewEngine wraps next with tracing. system names the backing store
// (postgres, sqlite, mongo, supabase, memory) and is recorded as db.system.
func NewEngine(next repository.Engine, system string) *Engine {
	return &Engine{next: next, system: system}
}

var _ repository.Engine = (*Engine)(nil)

func (e *Engine) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	ctx, span := e.start(ctx, "engine.Insert", table)
	defer span.End()

	rows, err := e.next.Insert(ctx, table, values)
	finish(span, len(rows), err)
	return rows, err
}

func (e *Engine) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	ctx, span := e.start(ctx, "engine.SelectOne", table)
	defer span.End()
	span.SetAttributes(attribute.String("db.predicate.column", where.Column))

	row, err := e.next.SelectOne(ctx, table, where)
	n := 0
	if row != nil {
		n = 1
	}
	finish(span, n, err)
	return row, err
}

func (e *Engine) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	ctx, span := e.start(ctx, "engine.SelectMany", table)
	defer span.End()
	if q.Where != nil {
		span.SetAttributes(attribute.String("db.predicate.column", q.Where.Column))
	}

	rows, err := e.next.SelectMany(ctx, table, q)
	finish(span, len(rows), err)
	return rows, err
}

func (e *Engine) start(ctx context.Context, name string, table repository.Table) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", e.system),
			attribute.String("db.table", string(table)),
		),
	)
}

func finish(span trace.Span, rows int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("db.rows", rows))
}
