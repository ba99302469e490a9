// Package mongostore implements repository.Engine on MongoDB.
//
// Each table maps to a collection of the same name. The primary key column is
// mirrored into _id so uniqueness is enforced by the server, and declared
// foreign keys are checked with a count on the referenced collection before
// the insert.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"article-store/internal/repository"
)

// Engine issues repository commands against a MongoDB database.
type Engine struct {
	db    *mongo.Database
	now   func() time.Time
	specs map[repository.Table]repository.TableSpec
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for the created column.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine over db. The caller owns the client behind db.
func New(db *mongo.Database, opts ...Option) *Engine {
	e := &Engine{
		db:    db,
		now:   time.Now,
		specs: make(map[repository.Table]repository.TableSpec),
	}
	for _, spec := range repository.Schema() {
		e.specs[spec.Name] = spec
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ repository.Engine = (*Engine)(nil)

func (e *Engine) Insert(ctx context.Context, table repository.Table, values []repository.Assignment) ([]repository.Row, error) {
	spec, err := e.spec(table)
	if err != nil {
		return nil, err
	}
	doc, row, err := buildDocument(spec, values, e.now())
	if err != nil {
		return nil, fmt.Errorf("Insert: %w", err)
	}

	for _, fk := range spec.ForeignKeys {
		n, err := e.db.Collection(string(fk.RefTable)).CountDocuments(ctx,
			bson.D{{Key: fk.RefColumn, Value: row[fk.Column]}},
			options.Count().SetLimit(1))
		if err != nil {
			return nil, fmt.Errorf("Insert: check %s: %w", fk.RefTable, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("Insert: %w: %s %v not present in %s",
				repository.ErrConstraint, fk.Column, row[fk.Column], fk.RefTable)
		}
	}

	if _, err := e.db.Collection(string(table)).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("Insert: %w: %v", repository.ErrConstraint, err)
		}
		return nil, fmt.Errorf("Insert: %w", err)
	}
	return []repository.Row{row}, nil
}

func (e *Engine) SelectOne(ctx context.Context, table repository.Table, where repository.Predicate) (repository.Row, error) {
	if _, err := e.spec(table); err != nil {
		return nil, err
	}
	var doc bson.M
	err := e.db.Collection(string(table)).FindOne(ctx, filterFor(&where)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("SelectOne: %w", err)
	}
	return toRow(doc), nil
}

func (e *Engine) SelectMany(ctx context.Context, table repository.Table, q repository.Query) ([]repository.Row, error) {
	if _, err := e.spec(table); err != nil {
		return nil, err
	}
	opts := options.Find()
	if len(q.OrderBy) > 0 {
		opts.SetSort(sortFor(q.OrderBy))
	}
	cursor, err := e.db.Collection(string(table)).Find(ctx, filterFor(q.Where), opts)
	if err != nil {
		return nil, fmt.Errorf("SelectMany: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("SelectMany: %w", err)
	}
	rows := make([]repository.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, toRow(doc))
	}
	return rows, nil
}

// EnsureIndexes creates the lookup and ordering indexes of every collection.
// Creating an index that already exists is a no-op on the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := map[repository.Table][]mongo.IndexModel{
		repository.ArticleTable: {
			{
				Keys:    bson.D{{Key: repository.ColArticleID, Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_article_id"),
			},
			{
				Keys:    bson.D{{Key: repository.ColCreated, Value: -1}, {Key: repository.ColArticleID, Value: -1}},
				Options: options.Index().SetName("idx_article_created"),
			},
		},
		repository.CommentTable: {
			{
				Keys:    bson.D{{Key: repository.ColCommentID, Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_comment_id"),
			},
			{
				Keys:    bson.D{{Key: repository.ColArticleID, Value: 1}, {Key: repository.ColCommentID, Value: 1}},
				Options: options.Index().SetName("idx_comment_article_id"),
			},
		},
	}
	for _, table := range []repository.Table{repository.ArticleTable, repository.CommentTable} {
		if _, err := db.Collection(string(table)).Indexes().CreateMany(ctx, models[table]); err != nil {
			return fmt.Errorf("EnsureIndexes %s: %w", table, err)
		}
	}
	return nil
}

func (e *Engine) spec(table repository.Table) (repository.TableSpec, error) {
	spec, ok := e.specs[table]
	if !ok {
		return repository.TableSpec{}, fmt.Errorf("mongostore: unknown table %q", table)
	}
	return spec, nil
}

// buildDocument turns the assignments into the stored document and the row reported back to the caller.
func buildDocument(spec repository.TableSpec, values []repository.Assignment, now time.Time) (bson.D, repository.Row, error) {
	row := make(repository.Row, len(spec.Columns))
	for _, v := range values {
		if !slices.Contains(spec.Columns, v.Column) {
			return nil, nil, fmt.Errorf("unknown column %q in %s", v.Column, spec.Name)
		}
		row[v.Column] = v.Value
	}
	if spec.CreatedColumn != "" {
		if _, ok := row[spec.CreatedColumn]; !ok {
			// BSON の日時はミリ秒精度
			row[spec.CreatedColumn] = now.UTC().Truncate(time.Millisecond)
		}
	}

	doc := make(bson.D, 0, len(row)+1)
	if spec.PrimaryKey != "" {
		key, ok := row[spec.PrimaryKey]
		if !ok || key == nil {
			return nil, nil, fmt.Errorf("%w: %s is required", repository.ErrConstraint, spec.PrimaryKey)
		}
		doc = append(doc, bson.E{Key: "_id", Value: key})
	}
	for _, col := range spec.Columns {
		if v, ok := row[col]; ok {
			doc = append(doc, bson.E{Key: col, Value: v})
		}
	}
	return doc, row, nil
}

func filterFor(where *repository.Predicate) bson.D {
	if where == nil {
		return bson.D{}
	}
	return bson.D{{Key: where.Column, Value: where.Value}}
}

func sortFor(orders []repository.Order) bson.D {
	sort := make(bson.D, 0, len(orders))
	for _, o := range orders {
		dir := 1
		if o.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: o.Column, Value: dir})
	}
	return sort
}

// toRow drops the _id mirror and converts BSON dates to time.Time.
func toRow(doc bson.M) repository.Row {
	row := make(repository.Row, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		if dt, ok := v.(primitive.DateTime); ok {
			row[k] = dt.Time().UTC()
			continue
		}
		row[k] = v
	}
	return row
}
