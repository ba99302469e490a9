// Package article provides use cases for articles and their comments.
// It validates input before delegating persistence to the article and comment
// repositories and maps repository absence onto use-case errors.
package article

import (
	"errors"

	"article-store/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	// Returned by Get for an unknown ID and by AddComment when the target
	// article does not exist.
	// It matches entity.ErrNotFound.
	ErrArticleNotFound error = notFoundError{kind: "article"}

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs are ULIDs or UUIDs as produced by the identifier generator.
	ErrInvalidArticleID = errors.New("invalid article ID")
)

// notFoundError names the missing entity and unwraps to entity.ErrNotFound.
type notFoundError struct {
	kind string
}

func (e notFoundError) Error() string { return e.kind + " not found" }

func (e notFoundError) Unwrap() error { return entity.ErrNotFound }
