package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"article-store/internal/repository"
)

// Querier is the subset of *sql.DB the engine needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Engine executes repository commands as single SQL statements.
type Engine struct {
	db           Querier
	queryBuilder *QueryBuilder
}

// New returns an engine issuing d-flavoured SQL through db.
// The caller owns db and is responsible for closing it.
func New(db Querier, d Dialect) *Engine {
	return &Engine{
		db:           db,
		queryBuilder: NewQueryBuilder(d),
	}
}

var _ repository.Engine = (*Engine)(nil)

func (e *Engine) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	query, args, err := e.queryBuilder.BuildInsert(table, values)
	if err != nil {
		return nil, fmt.Errorf("Insert: %w", err)
	}
	rows, err := e.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("Insert: %w", classify(err))
	}
	return rows, nil
}

func (e *Engine) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	query, args, err := e.queryBuilder.BuildSelect(table, repository.Query{Where: &where}, 1)
	if err != nil {
		return nil, fmt.Errorf("SelectOne: %w", err)
	}
	rows, err := e.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("SelectOne: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (e *Engine) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	query, args, err := e.queryBuilder.BuildSelect(table, q, 0)
	if err != nil {
		return nil, fmt.Errorf("SelectMany: %w", err)
	}
	rows, err := e.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("SelectMany: %w", err)
	}
	return rows, nil
}

func (e *Engine) query(ctx context.Context, query string, args []any) ([]repository.Row, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("Columns: %w", err)
	}

	result := make([]repository.Row, 0, 16)
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		row := make(repository.Row, len(cols))
		for i, col := range cols {
			// TEXT カラムはドライバによって []byte で返るため string に揃える
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
