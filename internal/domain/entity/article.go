// Package entity defines the core domain entities and validation logic for the application.
// It contains the publishing records, Article and Comment, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a published article.
// ID is assigned by the identifier generator and Created by the storage layer.
type Article struct {
	ID      string
	Title   string
	URL     string
	Created time.Time
}
