package repository

import (
	"context"
	"log/slog"

	"article-store/internal/domain/entity"
	"article-store/internal/observability/logging"
	"article-store/internal/pkg/idgen"
)

// ArticleRepository creates and reads article records.
type ArticleRepository interface {
	// Create stores a new article and returns it as persisted, including Created.
	Create(ctx context.Context, title, url string) (*entity.Article, error)
	// Get returns the article with the given ID.
	// Returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id string) (*entity.Article, error)
	// List returns every article, most recently created first.
	List(ctx context.Context) ([]*entity.Article, error)
}

// ArticleRepo implements ArticleRepository on top of an Engine.
type ArticleRepo struct {
	engine Engine
	ids    idgen.Generator
}

// NewArticleRepo creates an engine-backed article repository.
func NewArticleRepo(engine Engine, ids idgen.Generator) *ArticleRepo {
	return &ArticleRepo{engine: engine, ids: ids}
}

// Create inserts {article_id, title, url} and returns the first returned row.
// An insert that returns no row is a StorageError wrapping ErrNoRowReturned.
func (repo *ArticleRepo) Create(ctx context.Context, title, url string) (*entity.Article, error) {
	rows, err := repo.engine.Insert(ctx, ArticleTable, []Assignment{
		{Column: ColArticleID, Value: repo.ids.NewID()},
		{Column: ColTitle, Value: title},
		{Column: ColURL, Value: url},
	})
	if err != nil {
		return nil, storageErr("create", ArticleTable, err)
	}
	if len(rows) == 0 {
		return nil, storageErr("create", ArticleTable, ErrNoRowReturned)
	}

	article, err := decodeArticle(rows[0])
	if err != nil {
		return nil, storageErr("create", ArticleTable, err)
	}
	logging.FromContext(ctx).Debug("article created",
		slog.String("article_id", article.ID),
		slog.Int("returned_rows", len(rows)))
	return article, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id string) (*entity.Article, error) {
	row, err := repo.engine.SelectOne(ctx, ArticleTable, Predicate{Column: ColArticleID, Value: id})
	if err != nil {
		return nil, storageErr("get", ArticleTable, err)
	}
	if row == nil {
		return nil, nil
	}

	article, err := decodeArticle(row)
	if err != nil {
		return nil, storageErr("get", ArticleTable, err)
	}
	return article, nil
}

// List orders by created DESC; equal timestamps fall back to article_id DESC,
// which keeps newest-first because IDs sort by generation time.
func (repo *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	rows, err := repo.engine.SelectMany(ctx, ArticleTable, Query{
		OrderBy: []Order{
			{Column: ColCreated, Descending: true},
			{Column: ColArticleID, Descending: true},
		},
	})
	if err != nil {
		return nil, storageErr("list", ArticleTable, err)
	}

	articles := make([]*entity.Article, 0, len(rows))
	for _, row := range rows {
		article, err := decodeArticle(row)
		if err != nil {
			return nil, storageErr("list", ArticleTable, err)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func decodeArticle(row Row) (*entity.Article, error) {
	var (
		article entity.Article
		err     error
	)
	if article.ID, err = row.String(ColArticleID); err != nil {
		return nil, err
	}
	if article.Title, err = row.String(ColTitle); err != nil {
		return nil, err
	}
	if article.URL, err = row.String(ColURL); err != nil {
		return nil, err
	}
	if article.Created, err = row.Time(ColCreated); err != nil {
		return nil, err
	}
	return &article, nil
}
