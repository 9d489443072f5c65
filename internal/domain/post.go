package domain

import "time"

// PostCategory enumerates the public sections of the portal.
type PostCategory string

const (
	PostCategoryJob       PostCategory = "job"
	PostCategoryAdmitCard PostCategory = "admit_card"
	PostCategoryResult    PostCategory = "result"
	PostCategoryNews      PostCategory = "news"
)

// PostCategories lists every category in display order.
var PostCategories = []PostCategory{
	PostCategoryJob,
	PostCategoryAdmitCard,
	PostCategoryResult,
	PostCategoryNews,
}

// Valid reports whether c is a known category.
func (c PostCategory) Valid() bool {
	for _, known := range PostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is a job notice, admit card, result or news item.
type Post struct {
	ID           string
	Category     PostCategory
	Title        string
	Slug         string
	Summary      string
	Body         string // Markdown source
	BodyHTML     string // sanitized rendering of Body
	Organization string
	ApplyURL     string
	LastDate     *time.Time
	Published    bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
