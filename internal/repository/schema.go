package repository

// Tables of the publishing store.
const (
	ArticleTable Table = "article"
	CommentTable Table = "comment"
)

// Column names shared by every engine.
const (
	ColArticleID = "article_id"
	ColTitle     = "title"
	ColURL       = "url"
	ColCreated   = "created"
	ColCommentID = "comment_id"
	ColText      = "text"
)

// ForeignKey declares that Column must match an existing RefColumn in RefTable.
type ForeignKey struct {
	Column    string
	RefTable  Table
	RefColumn string
}

// TableSpec describes a table for engines that do not read a DDL schema,
// such as the in-memory and document engines.
type TableSpec struct {
	Name       Table
	Columns    []string
	PrimaryKey string
	// CreatedColumn is filled by the engine with the insert time; empty means none.
	CreatedColumn string
	ForeignKeys   []ForeignKey
}

// Schema returns the table definitions of the publishing store.
func Schema() []TableSpec {
	return []TableSpec{
		{
			Name:          ArticleTable,
			Columns:       []string{ColArticleID, ColTitle, ColURL, ColCreated},
			PrimaryKey:    ColArticleID,
			CreatedColumn: ColCreated,
		},
		{
			Name:       CommentTable,
			Columns:    []string{ColCommentID, ColArticleID, ColText},
			PrimaryKey: ColCommentID,
			ForeignKeys: []ForeignKey{
				{Column: ColArticleID, RefTable: ArticleTable, RefColumn: ColArticleID},
			},
		},
	}
}

// Columns returns the column list of table, or nil for an unknown table.
func Columns(table Table) []string {
	for _, spec := range Schema() {
		if spec.Name == table {
			return spec.Columns
		}
	}
	return nil
}
