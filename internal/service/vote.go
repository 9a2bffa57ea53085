package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
	"lireddit/internal/repository"
)

// VoteService keeps post points equal to the sum of the post's votes.
type VoteService struct {
	repo repository.VoteRepository
}

func NewVoteService(repo repository.VoteRepository) *VoteService {
	return &VoteService{repo: repo}
}

// Vote records userID's vote on postID. Any value other than -1 is an upvote.
//
// Transitions per (user, post):
//
//	none -> dir       insert, points += dir
//	-dir -> dir       flip,   points += 2*dir
//	dir  -> dir       no-op
//
// A missing post is a successful no-op. The post row stays locked for the
// whole transaction, so concurrent votes on the same post are serialized.
func (s *VoteService) Vote(ctx context.Context, userID, postID int64, value int) (bool, error) {
	dir := model.VoteDirection(value)

	err := s.repo.InTx(ctx, func(tx repository.VoteTx) error {
		if _, err := tx.LockPost(ctx, postID); err != nil {
			return err
		}

		existing, err := tx.GetVote(ctx, userID, postID)
		switch {
		case errors.Is(err, model.ErrVoteNotFound):
			if err := tx.InsertVote(ctx, &model.Vote{UserID: userID, PostID: postID, Value: dir}); err != nil {
				return err
			}
			return tx.AddPoints(ctx, postID, dir)
		case err != nil:
			return err
		case existing.Value != dir:
			if err := tx.UpdateVoteValue(ctx, userID, postID, dir); err != nil {
				return err
			}
			return tx.AddPoints(ctx, postID, 2*dir)
		default:
			return nil
		}
	})
	if errors.Is(err, model.ErrPostNotFound) {
		return true, nil
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "post_id": postID}).Error("[VoteService] Vote FAILED")
		return false, err
	}

	return true, nil
}
