// Package sqlstore implements repository.Engine on top of database/sql.
//
// The same engine serves PostgreSQL (pgx stdlib driver) and SQLite
// (modernc.org/sqlite). The only differences between the two are the
// placeholder style and the bootstrap DDL, both carried by Dialect.
package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	// Name is the store driver name used in configuration.
	Name string
	// DriverName is the database/sql driver registered for the dialect.
	DriverName string
	// numbered placeholders ($1, $2, ...) instead of ?.
	numbered bool
	ddl      []string
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Postgres is the PostgreSQL dialect served through github.com/jackc/pgx/v5/stdlib.
var Postgres = Dialect{
	Name:       "postgres",
	DriverName: "pgx",
	numbered:   true,
	ddl:        postgresDDL,
}

// SQLite is the SQLite dialect served through modernc.org/sqlite.
var SQLite = Dialect{
	Name:       "sqlite",
	DriverName: "sqlite",
	numbered:   false,
	ddl:        sqliteDDL,
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case Postgres.Name, "postgresql", "pgx":
		return Postgres, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("sqlstore: unknown dialect %q", name)
	}
}

// quoteIdent quotes an identifier for both PostgreSQL and SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
