package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lireddit/internal/model"
)

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) VoteRepository {
	return &voteRepository{db: db}
}

// InTx begins a transaction, hands it to fn and commits on success.
func (r *voteRepository) InTx(ctx context.Context, fn func(tx VoteTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&voteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type voteTx struct {
	tx *sqlx.Tx
}

func (t *voteTx) LockPost(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, title, text, points, creator_id, created_at, updated_at
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`
	var post model.Post
	err := t.tx.GetContext(ctx, &post, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock post: %w", err)
	}
	return &post, nil
}

func (t *voteTx) GetVote(ctx context.Context, userID, postID int64) (*model.Vote, error) {
	var vote model.Vote
	err := t.tx.GetContext(ctx, &vote,
		`SELECT user_id, post_id, value FROM updoot WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return &vote, nil
}

func (t *voteTx) InsertVote(ctx context.Context, vote *model.Vote) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO updoot (user_id, post_id, value) VALUES ($1, $2, $3)`,
		vote.UserID, vote.PostID, vote.Value)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (t *voteTx) UpdateVoteValue(ctx context.Context, userID, postID int64, value int) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE updoot SET value = $1 WHERE user_id = $2 AND post_id = $3`, value, userID, postID)
	if err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	return expectOneRow(result, model.ErrVoteNotFound)
}

func (t *voteTx) AddPoints(ctx context.Context, postID int64, delta int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE posts SET points = points + $1 WHERE id = $2`, delta, postID)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}
