package repository

import (
	"context"
	"time"

	"lireddit/internal/model"
)

type UserRepository interface {
	// Create inserts the user; a duplicate username or email yields *model.UniqueViolationError.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteByEmail(ctx context.Context, email string) error
}

type PostRepository interface {
	// List returns up to limit posts newest first, only those created strictly before cursor when set.
	List(ctx context.Context, limit int, cursor *time.Time) ([]model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	UpdateTitle(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
}

// VoteTx is the set of store operations the vote ledger runs inside one transaction.
type VoteTx interface {
	// LockPost reads the post and holds its row lock until the transaction ends.
	LockPost(ctx context.Context, postID int64) (*model.Post, error)
	GetVote(ctx context.Context, userID, postID int64) (*model.Vote, error)
	InsertVote(ctx context.Context, vote *model.Vote) error
	UpdateVoteValue(ctx context.Context, userID, postID int64, value int) error
	AddPoints(ctx context.Context, postID int64, delta int) error
}

type VoteRepository interface {
	// InTx runs fn in a transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx VoteTx) error) error
}
