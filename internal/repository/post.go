package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lireddit/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postRow is a post joined with its creator.
type postRow struct {
	model.Post
	CreatorUsername  string    `db:"creator_username"`
	CreatorEmail     string    `db:"creator_email"`
	CreatorCreatedAt time.Time `db:"creator_created_at"`
	CreatorUpdatedAt time.Time `db:"creator_updated_at"`
}

func (r postRow) toPost() model.Post {
	p := r.Post
	p.Creator = &model.UserSummary{
		ID:        p.CreatorID,
		Username:  r.CreatorUsername,
		Email:     r.CreatorEmail,
		CreatedAt: r.CreatorCreatedAt,
		UpdatedAt: r.CreatorUpdatedAt,
	}
	return p
}

// List returns posts newest first with their creators joined.
// The cursor predicate is a strict "<" so a page boundary never repeats a row.
func (r *postRepository) List(ctx context.Context, limit int, cursor *time.Time) ([]model.Post, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT p.id, p.title, p.text, p.points, p.creator_id, p.created_at, p.updated_at,
			       u.username AS creator_username, u.email AS creator_email,
			       u.created_at AS creator_created_at, u.updated_at AS creator_updated_at
			FROM posts p
			INNER JOIN users u ON u.id = p.creator_id
			ORDER BY p.created_at DESC
			LIMIT $1
		`
		args = []interface{}{limit}
	} else {
		query = `
			SELECT p.id, p.title, p.text, p.points, p.creator_id, p.created_at, p.updated_at,
			       u.username AS creator_username, u.email AS creator_email,
			       u.created_at AS creator_created_at, u.updated_at AS creator_updated_at
			FROM posts p
			INNER JOIN users u ON u.id = p.creator_id
			WHERE p.created_at < $1
			ORDER BY p.created_at DESC
			LIMIT $2
		`
		args = []interface{}{*cursor, limit}
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `
		SELECT id, title, text, points, creator_id, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create inserts a post with zero points.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (title, text, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, points, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, post.Title, post.Text, post.CreatorID).
		Scan(&post.ID, &post.Points, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, updated_at = NOW() WHERE id = $2`, title, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectOneRow(result, model.ErrPostNotFound)
}

// Delete hard-deletes a post; its votes cascade.
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectOneRow(result, model.ErrPostNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
