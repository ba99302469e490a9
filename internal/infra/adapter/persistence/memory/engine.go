// Package memory provides an in-process implementation of repository.Engine.
// It keeps rows in insertion order, fills engine-populated timestamps and
// enforces the primary and foreign keys declared by the table specs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"article-store/internal/repository"
)

type table struct {
	spec repository.TableSpec
	rows []repository.Row
	keys map[any]struct{}
}

// Engine is a mutex-guarded in-memory store.
type Engine struct {
	mu     sync.RWMutex
	now    func() time.Time
	tables map[repository.Table]*table
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for engine-populated timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSchema replaces the default repository.Schema() tables.
func WithSchema(specs ...repository.TableSpec) Option {
	return func(e *Engine) {
		e.tables = make(map[repository.Table]*table, len(specs))
		for _, spec := range specs {
			e.tables[spec.Name] = &table{spec: spec, keys: make(map[any]struct{})}
		}
	}
}

// New creates an empty Engine with the publishing schema.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	WithSchema(repository.Schema()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Insert(ctx context.Context, name repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(name)
	if err != nil {
		return nil, err
	}

	row := make(repository.Row, len(t.spec.Columns))
	for _, v := range values {
		if !hasColumn(t.spec, v.Column) {
			return nil, fmt.Errorf("insert %s: unknown column %q", name, v.Column)
		}
		row[v.Column] = v.Value
	}
	if t.spec.CreatedColumn != "" {
		if _, ok := row[t.spec.CreatedColumn]; !ok {
			row[t.spec.CreatedColumn] = e.now().UTC()
		}
	}

	if pk := t.spec.PrimaryKey; pk != "" {
		key, ok := row[pk]
		if !ok || key == nil {
			return nil, fmt.Errorf("insert %s: %w: %s is required", name, repository.ErrConstraint, pk)
		}
		if _, dup := t.keys[key]; dup {
			return nil, fmt.Errorf("insert %s: %w: duplicate %s %v", name, repository.ErrConstraint, pk, key)
		}
	}
	for _, fk := range t.spec.ForeignKeys {
		if !e.exists(fk.RefTable, fk.RefColumn, row[fk.Column]) {
			return nil, fmt.Errorf("insert %s: %w: %s %v not present in %s",
				name, repository.ErrConstraint, fk.Column, row[fk.Column], fk.RefTable)
		}
	}

	t.rows = append(t.rows, row)
	if pk := t.spec.PrimaryKey; pk != "" {
		t.keys[row[pk]] = struct{}{}
	}
	return []repository.Row{clone(row)}, nil
}

func (e *Engine) SelectOne(ctx context.Context, name repository.Table, where repository.Predicate) (repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(name)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if compare(row[where.Column], where.Value) == 0 {
			return clone(row), nil
		}
	}
	return nil, nil
}

func (e *Engine) SelectMany(ctx context.Context, name repository.Table, q repository.Query) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(name)
	if err != nil {
		return nil, err
	}

	out := make([]repository.Row, 0, len(t.rows))
	for _, row := range t.rows {
		if q.Where != nil && compare(row[q.Where.Column], q.Where.Value) != 0 {
			continue
		}
		out = append(out, clone(row))
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.OrderBy {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return out, nil
}

// Len returns the number of rows in a table.
func (e *Engine) Len(name repository.Table) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

func (e *Engine) table(name repository.Table) (*table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

// exists must be called with e.mu held.
func (e *Engine) exists(name repository.Table, column string, value any) bool {
	t, ok := e.tables[name]
	if !ok || value == nil {
		return false
	}
	if column == t.spec.PrimaryKey {
		_, found := t.keys[value]
		return found
	}
	for _, row := range t.rows {
		if compare(row[column], value) == 0 {
			return true
		}
	}
	return false
}

func hasColumn(spec repository.TableSpec, column string) bool {
	for _, c := range spec.Columns {
		if c == column {
			return true
		}
	}
	return false
}

func clone(row repository.Row) repository.Row {
	out := make(repository.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// compare orders two column values. nil sorts first; mismatched types fall
// back to their formatted representation.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
