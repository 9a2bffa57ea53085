package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit/internal/model"
)

var lockColumns = []string{"id", "title", "text", "points", "creator_id", "created_at", "updated_at"}

func TestVoteRepository_FirstVoteCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoteRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(lockColumns).AddRow(int64(3), "t", "x", 0, int64(1), now, now))
	mock.ExpectQuery(`SELECT\s+user_id,\s*post_id,\s*value\s+FROM\s+updoot`).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "post_id", "value"}))
	mock.ExpectExec(`INSERT\s+INTO\s+updoot`).
		WithArgs(int64(1), int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+posts\s+SET\s+points\s*=\s*points\s*\+\s*\$1`).
		WithArgs(1, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx VoteTx) error {
		ctx := context.Background()
		if _, err := tx.LockPost(ctx, 3); err != nil {
			return err
		}
		_, err := tx.GetVote(ctx, 1, 3)
		if !errors.Is(err, model.ErrVoteNotFound) {
			return err
		}
		if err := tx.InsertVote(ctx, &model.Vote{UserID: 1, PostID: 3, Value: 1}); err != nil {
			return err
		}
		return tx.AddPoints(ctx, 3, 1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoteRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(lockColumns))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx VoteTx) error {
		_, err := tx.LockPost(context.Background(), 99)
		return err
	})
	assert.ErrorIs(t, err, model.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_UpdateVoteValue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+updoot\s+SET\s+value`).
		WithArgs(-1, int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx VoteTx) error {
		return tx.UpdateVoteValue(context.Background(), 1, 3, -1)
	})
	assert.ErrorIs(t, err, model.ErrVoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoteRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := repo.InTx(context.Background(), func(tx VoteTx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
