package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is the subset of *sql.DB needed to bootstrap the schema.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ID カラムは COLLATE "C" でバイト順比較にして ULID の時系列順を保つ
var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS "article" (
    "article_id" TEXT COLLATE "C" PRIMARY KEY,
    "title"      TEXT NOT NULL,
    "url"        TEXT NOT NULL,
    "created"    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS "comment" (
    "comment_id" TEXT COLLATE "C" PRIMARY KEY,
    "article_id" TEXT COLLATE "C" NOT NULL REFERENCES "article" ("article_id"),
    "text"       TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS "idx_article_created" ON "article" ("created" DESC, "article_id" DESC)`,
	`CREATE INDEX IF NOT EXISTS "idx_comment_article_id" ON "comment" ("article_id", "comment_id")`,
}

// created はミリ秒精度の固定長テキストなので文字列順 = 時系列順
var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS "article" (
    "article_id" TEXT PRIMARY KEY,
    "title"      TEXT NOT NULL,
    "url"        TEXT NOT NULL,
    "created"    DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
)`,
	`CREATE TABLE IF NOT EXISTS "comment" (
    "comment_id" TEXT PRIMARY KEY,
    "article_id" TEXT NOT NULL REFERENCES "article" ("article_id"),
    "text"       TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS "idx_article_created" ON "article" ("created" DESC, "article_id" DESC)`,
	`CREATE INDEX IF NOT EXISTS "idx_comment_article_id" ON "comment" ("article_id", "comment_id")`,
}

// Statements returns the bootstrap DDL of d.
func (d Dialect) Statements() []string {
	out := make([]string, len(d.ddl))
	copy(out, d.ddl)
	return out
}

// EnsureSchema creates the article and comment tables and their indexes when
// they do not exist yet. It is idempotent and never alters existing tables.
func EnsureSchema(ctx context.Context, db Execer, d Dialect) error {
	for i, stmt := range d.ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("EnsureSchema: statement %d: %w", i+1, err)
		}
	}
	return nil
}
