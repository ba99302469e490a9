// Package repository defines the persistence ports of the application and the
// engine-backed article and comment repositories that sit on top of them.
//
// Repositories never talk to a driver directly. Every call is expressed as one
// of the three Engine operations, so any store that can insert a row and
// select rows by equality can back the application.
package repository

import "context"

// Table names a logical table (or collection) in the execution engine.
type Table string

// Assignment is one column=value pair of an insert.
type Assignment struct {
	Column string
	Value  any
}

// Predicate is an equality filter: Column = Value.
type Predicate struct {
	Column string
	Value  any
}

// Order sorts results by Column.
type Order struct {
	Column     string
	Descending bool
}

// Query describes a SelectMany call. A nil Where selects every row.
type Query struct {
	Where   *Predicate
	OrderBy []Order
}

// Row is a single record keyed by column name.
type Row map[string]any

// Engine is the execution engine binding the repositories issue commands through.
// The engine owns connections, pooling and durability; implementations must be
// safe for concurrent use and must honour context cancellation.
type Engine interface {
	// Insert stores one row and returns the rows the engine reports as inserted,
	// including any columns populated by the engine itself.
	Insert(ctx context.Context, table Table, values []Assignment) ([]Row, error)
	// SelectOne returns the first row matching where, or a nil Row when none does.
	SelectOne(ctx context.Context, table Table, where Predicate) (Row, error)
	// SelectMany returns every row matching q in the requested order.
	SelectMany(ctx context.Context, table Table, q Query) ([]Row, error)
}
