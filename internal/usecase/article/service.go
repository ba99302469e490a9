package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"article-store/internal/domain/entity"
	"article-store/internal/observability/logging"
	"article-store/internal/observability/metrics"
	"article-store/internal/repository"
)

// CreateInput represents the input parameters for creating a new article.
type CreateInput struct {
	Title string
	URL   string
}

// Service provides article and comment use cases.
// It handles business logic and delegates persistence to the repositories.
type Service struct {
	Articles repository.ArticleRepository
	Comments repository.CommentRepository
}

// List retrieves all articles, most recently created first.
func (s *Service) List(ctx context.Context) ([]*entity.Article, error) {
	articles, err := s.Articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is malformed.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id string) (*entity.Article, error) {
	if err := validateArticleID(ctx, id); err != nil {
		return nil, err
	}

	article, err := s.Articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Create validates the input and stores a new article.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Article, error) {
	if err := entity.ValidateTitle(in.Title); err != nil {
		logRejected(ctx, "create article", err)
		return nil, fmt.Errorf("validate title: %w", err)
	}
	// URL形式検証
	if err := entity.ValidateURL(in.URL); err != nil {
		logRejected(ctx, "create article", err)
		return nil, fmt.Errorf("validate URL: %w", err)
	}

	article, err := s.Articles.Create(ctx, in.Title, in.URL)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	metrics.RecordArticleCreated()
	return article, nil
}

// AddComment attaches a comment to an existing article.
// Returns ErrInvalidArticleID if the ID is malformed, a ValidationError if the
// text is invalid, and ErrArticleNotFound if the store rejects the comment
// because the article does not exist.
func (s *Service) AddComment(ctx context.Context, articleID, text string) (*entity.Comment, error) {
	if err := validateArticleID(ctx, articleID); err != nil {
		return nil, err
	}
	if err := entity.ValidateCommentText(text); err != nil {
		logRejected(ctx, "add comment", err)
		return nil, fmt.Errorf("validate text: %w", err)
	}

	comment, err := s.Comments.AddComment(ctx, articleID, text)
	if err != nil {
		if errors.Is(err, repository.ErrConstraint) && s.missing(ctx, articleID) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	metrics.RecordCommentAdded()
	return comment, nil
}

// ListComments returns the comments of an article in creation order.
// An article without comments, or an unknown article, yields an empty list.
func (s *Service) ListComments(ctx context.Context, articleID string) ([]*entity.Comment, error) {
	if err := validateArticleID(ctx, articleID); err != nil {
		return nil, err
	}

	comments, err := s.Comments.Comments(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// missing reports whether articleID is confirmed absent.
// A failed lookup is not treated as absence.
func (s *Service) missing(ctx context.Context, articleID string) bool {
	article, err := s.Articles.Get(ctx, articleID)
	return err == nil && article == nil
}

// validateArticleID accepts the identifiers the generator produces: ULIDs and UUIDs.
func validateArticleID(ctx context.Context, id string) error {
	if _, err := ulid.ParseStrict(id); err == nil {
		return nil
	}
	if _, err := uuid.Parse(id); err == nil && len(id) == 36 {
		return nil
	}
	logRejected(ctx, "article id", ErrInvalidArticleID, slog.String("id", id))
	return ErrInvalidArticleID
}

func logRejected(ctx context.Context, op string, err error, attrs ...any) {
	args := append([]any{slog.String("op", op), slog.Any("error", err)}, attrs...)
	logging.FromContext(ctx).DebugContext(ctx, "input rejected", args...)
}
