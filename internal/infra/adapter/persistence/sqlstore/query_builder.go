package sqlstore

import (
	"fmt"
	"slices"
	"strings"

	"article-store/internal/repository"
)

// QueryBuilder renders engine commands as SQL for a dialect.
// Only tables and columns declared in repository.Schema are accepted, so every
// identifier that reaches the SQL text is a known constant; values always
// travel as bind arguments.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a query builder for d.
func NewQueryBuilder(d Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: d}
}

// BuildInsert renders an INSERT ... RETURNING statement that reports every column of table.
func (qb *QueryBuilder) BuildInsert(table repository.Table, values []repository.Assignment) (query string, args []any, err error) {
	cols, err := columnsOf(table)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("sqlstore: insert into %s without values", table)
	}

	names := make([]string, 0, len(values))
	params := make([]string, 0, len(values))
	args = make([]any, 0, len(values))
	for i, v := range values {
		if !slices.Contains(cols, v.Column) {
			return "", nil, fmt.Errorf("sqlstore: unknown column %q in %s", v.Column, table)
		}
		names = append(names, quoteIdent(v.Column))
		params = append(params, qb.dialect.Placeholder(i+1))
		args = append(args, v.Value)
	}

	query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(string(table)),
		strings.Join(names, ", "),
		strings.Join(params, ", "),
		selectList(cols))
	return query, args, nil
}

// BuildSelect renders a SELECT over every column of table with an optional
// equality filter, ordering and limit (0 means no limit).
func (qb *QueryBuilder) BuildSelect(table repository.Table, q repository.Query, limit int) (query string, args []any, err error) {
	cols, err := columnsOf(table)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", selectList(cols), quoteIdent(string(table)))

	if q.Where != nil {
		if !slices.Contains(cols, q.Where.Column) {
			return "", nil, fmt.Errorf("sqlstore: unknown column %q in %s", q.Where.Column, table)
		}
		fmt.Fprintf(&sb, " WHERE %s = %s", quoteIdent(q.Where.Column), qb.dialect.Placeholder(1))
		args = append(args, q.Where.Value)
	}

	if len(q.OrderBy) > 0 {
		terms := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			if !slices.Contains(cols, o.Column) {
				return "", nil, fmt.Errorf("sqlstore: unknown column %q in %s", o.Column, table)
			}
			dir := "ASC"
			if o.Descending {
				dir = "DESC"
			}
			terms = append(terms, quoteIdent(o.Column)+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}

	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", limit)
	}
	return sb.String(), args, nil
}

func columnsOf(table repository.Table) ([]string, error) {
	cols := repository.Columns(table)
	if cols == nil {
		return nil, fmt.Errorf("sqlstore: unknown table %q", table)
	}
	return cols, nil
}

func selectList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
