// Package article provides HTTP handlers for article and comment endpoints.
// It includes handlers for creating, listing and fetching articles and for
// adding and listing the comments of an article.
package article

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"article-store/internal/domain/entity"
	artUC "article-store/internal/usecase/article"
)

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID      string    `json:"id" example:"01JAB3K5Q8ZJ5N2X4T7W9YVC0D"`
	Title   string    `json:"title" example:"Go 1.25 リリース"`
	URL     string    `json:"url" example:"https://example.com/article/1"`
	Created time.Time `json:"created" example:"2026-10-16T12:00:00Z"`
}

// CommentDTO represents the JSON structure for comment data transfer.
type CommentDTO struct {
	ID        string `json:"id" example:"01JAB3M0Z9R4T6Y8U1I3O5P7A9"`
	ArticleID string `json:"article_id" example:"01JAB3K5Q8ZJ5N2X4T7W9YVC0D"`
	Text      string `json:"text" example:"参考になりました"`
}

// CreateRequest is the body of POST /articles.
type CreateRequest struct {
	Title string `json:"title" example:"Go 1.25 リリース"`
	URL   string `json:"url" example:"https://example.com/article/1"`
}

// CommentRequest is the body of POST /articles/{id}/comments.
type CommentRequest struct {
	Text string `json:"text" example:"参考になりました"`
}

func toDTO(a *entity.Article) DTO {
	return DTO{
		ID:      a.ID,
		Title:   a.Title,
		URL:     a.URL,
		Created: a.Created,
	}
}

func toCommentDTO(c *entity.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		Text:      c.Text,
	}
}

// statusFor maps use-case errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, artUC.ErrInvalidArticleID), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
