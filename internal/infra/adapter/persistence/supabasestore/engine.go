// Package supabasestore implements repository.Engine over the Supabase REST
// API (PostgREST). The tables are the same ones sqlstore.EnsureSchema creates
// for PostgreSQL; Supabase projects apply that DDL through their own migration tooling.
package supabasestore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	supabase "github.com/supabase-community/supabase-go"
	postgrest "github.com/supabase-community/postgrest-go"

	"article-store/internal/repository"
)

// PostgreSQL error codes PostgREST forwards for key violations.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// Engine issues repository commands as PostgREST requests.
type Engine struct {
	client *supabase.Client
}

// New returns an engine over client.
func New(client *supabase.Client) *Engine {
	return &Engine{client: client}
}

// NewClient creates a Supabase client for the public schema.
func NewClient(url, key string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{Schema: "public"})
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	return client, nil
}

var _ repository.Engine = (*Engine)(nil)

func (e *Engine) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}
	body := make(map[string]any, len(values))
	for _, v := range values {
		if !slices.Contains(cols, v.Column) {
			return nil, fmt.Errorf("Insert: unknown column %q in %s", v.Column, table)
		}
		body[v.Column] = v.Value
	}

	var rows []map[string]any
	err = run(ctx, func() error {
		_, err := e.client.From(string(table)).
			Insert(body, false, "", "representation", "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Insert: %w", classify(err))
	}
	return toRows(rows), nil
}

func (e *Engine) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	err = run(ctx, func() error {
		_, err := e.client.From(string(table)).
			Select(strings.Join(cols, ","), "", false).
			Eq(where.Column, fmt.Sprint(where.Value)).
			Limit(1, "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("SelectOne: %w", classify(err))
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return repository.Row(rows[0]), nil
}

func (e *Engine) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	err = run(ctx, func() error {
		fb := e.client.From(string(table)).Select(strings.Join(cols, ","), "", false)
		if q.Where != nil {
			fb = fb.Eq(q.Where.Column, fmt.Sprint(q.Where.Value))
		}
		for _, o := range q.OrderBy {
			fb = fb.Order(o.Column, &postgrest.OrderOpts{Ascending: !o.Descending})
		}
		_, err := fb.ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("SelectMany: %w", classify(err))
	}
	return toRows(rows), nil
}

// run executes call unless ctx is already done, and stops waiting once ctx ends.
// postgrest-go does not accept a context, so an abandoned request finishes in the background.
func run(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- call() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify maps PostgREST key violations onto repository.ErrConstraint.
// postgrest-go reports failures as "(<code>) <message>".
func classify(err error) error {
	msg := err.Error()
	if strings.HasPrefix(msg, "("+codeForeignKeyViolation+")") || strings.HasPrefix(msg, "("+codeUniqueViolation+")") {
		return fmt.Errorf("%w: %s", repository.ErrConstraint, msg)
	}
	return err
}

func columnsOf(table repository.Table) ([]string, error) {
	cols := repository.Columns(table)
	if cols == nil {
		return nil, fmt.Errorf("supabasestore: unknown table %q", table)
	}
	return cols, nil
}

func toRows(in []map[string]any) []repository.Row {
	out := make([]repository.Row, 0, len(in))
	for _, m := range in {
		out = append(out, repository.Row(m))
	}
	return out
}
