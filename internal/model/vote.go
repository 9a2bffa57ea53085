package model

import "errors"

// Vote directions.
const (
	Upvote   = 1
	Downvote = -1
)

// Vote is a single user's vote on a post. At most one per (user, post).
type Vote struct {
	UserID int64 `db:"user_id" json:"userId"`
	PostID int64 `db:"post_id" json:"postId"`
	Value  int   `db:"value" json:"value"`
}

// VoteDirection maps the client-supplied value onto a direction.
// Only exactly -1 is a downvote; every other number counts as an upvote.
func VoteDirection(value int) int {
	if value == -1 {
		return Downvote
	}
	return Upvote
}

var ErrVoteNotFound = errors.New("vote not found")
