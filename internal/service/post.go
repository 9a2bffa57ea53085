package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
	"lireddit/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// List returns one page of posts newest first.
// cursor is the creation time in Unix milliseconds of the last post already seen;
// nil or "" starts from the newest post.
func (s *PostService) List(ctx context.Context, limit int, cursor *string) (*model.PaginatedPosts, error) {
	realLimit := clampLimit(limit)
	fetchLimit := realLimit + 1

	var before *time.Time
	if cursor != nil && *cursor != "" {
		ms, err := strconv.ParseInt(*cursor, 10, 64)
		if err != nil {
			return nil, model.ErrInvalidCursor
		}
		t := time.UnixMilli(ms)
		before = &t
	}

	posts, err := s.postRepo.List(ctx, fetchLimit, before)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	hasMore := len(posts) == fetchLimit
	if hasMore {
		posts = posts[:realLimit]
	}

	return &model.PaginatedPosts{
		Posts:   posts,
		HasMore: hasMore,
	}, nil
}

func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	return min(limit, model.MaxPostsPageSize)
}

// Get returns nil when the post does not exist.
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, model.ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create stores a post owned by authorID, which must come from the session.
func (s *PostService) Create(ctx context.Context, authorID int64, req model.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		Title:     req.Title,
		Text:      req.Text,
		CreatorID: authorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "creator_id": authorID}).Info("[PostService] Create OK")
	return post, nil
}

// Update applies title when supplied. It does not check who owns the post.
func (s *PostService) Update(ctx context.Context, id int64, title *string) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil || post == nil {
		return nil, err
	}
	if title == nil {
		return post, nil
	}

	if err := s.postRepo.UpdateTitle(ctx, id, *title); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete reports false when the post is missing or the delete fails.
// It does not check who owns the post.
func (s *PostService) Delete(ctx context.Context, id int64) bool {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, model.ErrPostNotFound) {
			logrus.WithError(err).WithField("post_id", id).Error("[PostService] Delete FAILED")
		}
		return false
	}
	return true
}
