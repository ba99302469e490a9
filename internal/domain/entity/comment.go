package entity

// Comment is a piece of reader feedback attached to an Article through ArticleID.
type Comment struct {
	ID        string
	ArticleID string
	Text      string
}
