package repository

import (
	"context"
	"fmt"
	"log/slog"

	"article-store/internal/domain/entity"
	"article-store/internal/observability/logging"
	"article-store/internal/pkg/idgen"
)

// CommentRepository creates and reads comments scoped to an article.
type CommentRepository interface {
	// AddComment stores a comment on articleID and returns it as persisted.
	AddComment(ctx context.Context, articleID, text string) (*entity.Comment, error)
	// Comments returns the comments of articleID in creation order.
	Comments(ctx context.Context, articleID string) ([]*entity.Comment, error)
}

// CommentRepo implements CommentRepository on top of an Engine.
//
// Whether articleID exists is not checked here: the engine's foreign key on
// comment.article_id rejects orphans, and the rejection surfaces as a StorageError.
type CommentRepo struct {
	engine Engine
	ids    idgen.Generator
}

// NewCommentRepo creates an engine-backed comment repository.
func NewCommentRepo(engine Engine, ids idgen.Generator) *CommentRepo {
	return &CommentRepo{engine: engine, ids: ids}
}

// AddComment requires the insert to return exactly one row; zero rows wrap
// ErrNoRowReturned and more than one wrap ErrUnexpectedRowCount.
func (repo *CommentRepo) AddComment(ctx context.Context, articleID, text string) (*entity.Comment, error) {
	rows, err := repo.engine.Insert(ctx, CommentTable, []Assignment{
		{Column: ColCommentID, Value: repo.ids.NewID()},
		{Column: ColArticleID, Value: articleID},
		{Column: ColText, Value: text},
	})
	if err != nil {
		return nil, storageErr("add comment", CommentTable, err)
	}
	switch len(rows) {
	case 1:
	case 0:
		return nil, storageErr("add comment", CommentTable, ErrNoRowReturned)
	default:
		return nil, storageErr("add comment", CommentTable,
			fmt.Errorf("%w: got %d", ErrUnexpectedRowCount, len(rows)))
	}

	comment, err := decodeComment(rows[0])
	if err != nil {
		return nil, storageErr("add comment", CommentTable, err)
	}
	logging.FromContext(ctx).Debug("comment added",
		slog.String("comment_id", comment.ID),
		slog.String("article_id", comment.ArticleID))
	return comment, nil
}

// Comments orders by comment_id ascending, i.e. creation order.
func (repo *CommentRepo) Comments(ctx context.Context, articleID string) ([]*entity.Comment, error) {
	rows, err := repo.engine.SelectMany(ctx, CommentTable, Query{
		Where:   &Predicate{Column: ColArticleID, Value: articleID},
		OrderBy: []Order{{Column: ColCommentID}},
	})
	if err != nil {
		return nil, storageErr("comments", CommentTable, err)
	}

	comments := make([]*entity.Comment, 0, len(rows))
	for _, row := range rows {
		comment, err := decodeComment(row)
		if err != nil {
			return nil, storageErr("comments", CommentTable, err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func decodeComment(row Row) (*entity.Comment, error) {
	var (
		comment entity.Comment
		err     error
	)
	if comment.ID, err = row.String(ColCommentID); err != nil {
		return nil, err
	}
	if comment.ArticleID, err = row.String(ColArticleID); err != nil {
		return nil, err
	}
	if comment.Text, err = row.String(ColText); err != nil {
		return nil, err
	}
	return &comment, nil
}
