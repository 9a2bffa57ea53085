package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit/internal/repository"
)

func TestVoteService_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		values     []int
		wantPoints int
	}{
		{"first upvote", []int{1}, 1},
		{"first downvote", []int{-1}, -1},
		{"repeat upvote is a no-op", []int{1, 1}, 1},
		{"repeat downvote is a no-op", []int{-1, -1}, -1},
		{"up then down", []int{1, -1}, -1},
		{"down then up", []int{-1, 1}, 1},
		{"flip twice", []int{1, -1, 1}, 1},
		// only exactly -1 is a downvote
		{"any other value is an upvote", []int{5}, 1},
		{"zero is an upvote", []int{-1, 0}, 1},
		{"large negative is an upvote", []int{-7}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryVoteRepository(1)
			svc := NewVoteService(repo)

			for _, v := range tt.values {
				ok, err := svc.Vote(context.Background(), 1, 1, v)
				require.NoError(t, err)
				require.True(t, ok)
			}

			assert.Equal(t, tt.wantPoints, repo.Points(1))
			assert.Equal(t, repo.SumVotes(1), repo.Points(1))
		})
	}
}

// Voting up as A and down as B from a fresh post nets zero; re-voting up
// as A moves nothing.
func TestVoteService_TwoUsers(t *testing.T) {
	repo := newMemoryVoteRepository(1)
	svc := NewVoteService(repo)
	ctx := context.Background()

	_, err := svc.Vote(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.Vote(ctx, 2, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Points(1))

	_, err = svc.Vote(ctx, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Points(1))

	_, err = svc.Vote(ctx, 2, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Points(1))
}

func TestVoteService_MissingPostIsSuccess(t *testing.T) {
	repo := newMemoryVoteRepository(1)
	svc := NewVoteService(repo)

	ok, err := svc.Vote(context.Background(), 1, 404, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, repo.SumVotes(404))
}

type failingVoteRepository struct{ err error }

func (f failingVoteRepository) InTx(ctx context.Context, fn func(tx repository.VoteTx) error) error {
	return f.err
}

func TestVoteService_StoreError(t *testing.T) {
	dbError := errors.New("deadlock detected")
	svc := NewVoteService(failingVoteRepository{err: dbError})

	ok, err := svc.Vote(context.Background(), 1, 1, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, dbError)
}

// Many goroutines flipping the same (user, post) pairs concurrently must
// leave points equal to the sum of the stored votes.
func TestVoteService_ConcurrentVotesKeepPointsConsistent(t *testing.T) {
	repo := newMemoryVoteRepository(1)
	svc := NewVoteService(repo)

	const goroutines = 16
	const votesEach = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < votesEach; i++ {
				userID := int64(rng.Intn(3) + 1)
				value := 1
				if rng.Intn(2) == 0 {
					value = -1
				}
				if _, err := svc.Vote(context.Background(), userID, 1, value); err != nil {
					t.Errorf("vote failed: %v", err)
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()

	assert.Equal(t, repo.SumVotes(1), repo.Points(1))
}
