package model

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Post is a text post with its running vote score.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Text      string    `db:"text" json:"text"`
	Points    int       `db:"points" json:"points"`
	CreatorID int64     `db:"creator_id" json:"creatorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined field (not in posts table)
	Creator *UserSummary `db:"-" json:"creator,omitempty"`
}

// Snippet returns the first SnippetLength characters of the body.
func (p *Post) Snippet() string {
	if utf8.RuneCountInString(p.Text) <= SnippetLength {
		return p.Text
	}
	return string([]rune(p.Text)[:SnippetLength])
}

// PaginatedPosts is one page of the newest-first post listing.
type PaginatedPosts struct {
	Posts   []Post `json:"posts"`
	HasMore bool   `json:"hasMore"`
}

// CreatePostRequest is the input for creating a post.
type CreatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Post constants
const (
	MaxPostsPageSize = 50
	SnippetLength    = 50
)

// Post errors
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidCursor = errors.New("invalid cursor")
)
