package service

import (
	"context"
	"sync"
	"time"

	"lireddit/internal/auth"
	"lireddit/internal/model"
	"lireddit/internal/queue"
	"lireddit/internal/repository"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository interfaces, so each test swaps in a mock
// whose behavior is set per test through function fields.

type mockUserRepository struct {
	createFn         func(ctx context.Context, user *model.User) error
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	listFn           func(ctx context.Context) ([]model.User, error)
	updatePasswordFn func(ctx context.Context, id int64, hash string) error
	deleteByEmailFn  func(ctx context.Context, email string) error

	createCalls        []*model.User
	deleteByEmailCalls []string
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.User{}, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	m.deleteByEmailCalls = append(m.deleteByEmailCalls, email)
	if m.deleteByEmailFn != nil {
		return m.deleteByEmailFn(ctx, email)
	}
	return nil
}

type mockPostRepository struct {
	listFn        func(ctx context.Context, limit int, cursor *time.Time) ([]model.Post, error)
	getByIDFn     func(ctx context.Context, id int64) (*model.Post, error)
	createFn      func(ctx context.Context, post *model.Post) error
	updateTitleFn func(ctx context.Context, id int64, title string) error
	deleteFn      func(ctx context.Context, id int64) error

	updateTitleCalls int
}

func (m *mockPostRepository) List(ctx context.Context, limit int, cursor *time.Time) ([]model.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, cursor)
	}
	return nil, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	m.updateTitleCalls++
	if m.updateTitleFn != nil {
		return m.updateTitleFn(ctx, id, title)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// =============================================================================
// IN-MEMORY VOTE STORE
// =============================================================================
//
// memoryVoteRepository mimics the Postgres transaction: InTx holds one mutex
// for the whole callback (the row lock) and applies writes only on success.

type memoryVoteRepository struct {
	mu     sync.Mutex
	points map[int64]int
	votes  map[[2]int64]int
}

func newMemoryVoteRepository(postIDs ...int64) *memoryVoteRepository {
	r := &memoryVoteRepository{
		points: make(map[int64]int),
		votes:  make(map[[2]int64]int),
	}
	for _, id := range postIDs {
		r.points[id] = 0
	}
	return r
}

func (r *memoryVoteRepository) InTx(ctx context.Context, fn func(tx repository.VoteTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryVoteTx{
		repo:   r,
		points: make(map[int64]int),
		votes:  make(map[[2]int64]int),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for id, delta := range tx.points {
		r.points[id] += delta
	}
	for key, value := range tx.votes {
		r.votes[key] = value
	}
	return nil
}

func (r *memoryVoteRepository) Points(postID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.points[postID]
}

func (r *memoryVoteRepository) SumVotes(postID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for key, value := range r.votes {
		if key[1] == postID {
			sum += value
		}
	}
	return sum
}

type memoryVoteTx struct {
	repo   *memoryVoteRepository
	points map[int64]int
	votes  map[[2]int64]int
}

func (t *memoryVoteTx) LockPost(ctx context.Context, postID int64) (*model.Post, error) {
	points, ok := t.repo.points[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return &model.Post{ID: postID, Points: points}, nil
}

func (t *memoryVoteTx) GetVote(ctx context.Context, userID, postID int64) (*model.Vote, error) {
	key := [2]int64{userID, postID}
	if value, ok := t.votes[key]; ok {
		return &model.Vote{UserID: userID, PostID: postID, Value: value}, nil
	}
	if value, ok := t.repo.votes[key]; ok {
		return &model.Vote{UserID: userID, PostID: postID, Value: value}, nil
	}
	return nil, model.ErrVoteNotFound
}

func (t *memoryVoteTx) InsertVote(ctx context.Context, vote *model.Vote) error {
	t.votes[[2]int64{vote.UserID, vote.PostID}] = vote.Value
	return nil
}

func (t *memoryVoteTx) UpdateVoteValue(ctx context.Context, userID, postID int64, value int) error {
	t.votes[[2]int64{userID, postID}] = value
	return nil
}

func (t *memoryVoteTx) AddPoints(ctx context.Context, postID int64, delta int) error {
	t.points[postID] += delta
	return nil
}

// =============================================================================
// SESSION, TOKEN STORE, PUBLISHER
// =============================================================================

type mockSession struct {
	userID     int64
	loggedIn   bool
	destroyErr error

	establishCalls []int64
	destroyCalls   int
}

func (s *mockSession) UserID() (int64, bool) { return s.userID, s.loggedIn }

func (s *mockSession) Establish(ctx context.Context, userID int64) error {
	s.establishCalls = append(s.establishCalls, userID)
	s.userID = userID
	s.loggedIn = true
	return nil
}

func (s *mockSession) Destroy(ctx context.Context) error {
	s.destroyCalls++
	if s.destroyErr != nil {
		return s.destroyErr
	}
	s.userID = 0
	s.loggedIn = false
	return nil
}

type mockResetTokenStore struct {
	tokens    map[string]int64
	deleteErr error
}

func newMockResetTokenStore() *mockResetTokenStore {
	return &mockResetTokenStore{tokens: make(map[string]int64)}
}

func (m *mockResetTokenStore) Save(ctx context.Context, token string, userID int64) error {
	m.tokens[token] = userID
	return nil
}

func (m *mockResetTokenStore) UserID(ctx context.Context, token string) (int64, error) {
	userID, ok := m.tokens[token]
	if !ok {
		return 0, model.ErrResetTokenNotFound
	}
	return userID, nil
}

func (m *mockResetTokenStore) Delete(ctx context.Context, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.tokens, token)
	return nil
}

type mockPublisher struct {
	streams []string
	events  []queue.MailEvent
	err     error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.MailEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.streams = append(m.streams, stream)
	m.events = append(m.events, event)
	return "1-0", nil
}

func (m *mockPublisher) PublishPasswordReset(ctx context.Context, userID int64, to, username, link string) (string, error) {
	return m.Publish(ctx, queue.StreamMail, queue.NewPasswordResetEvent(userID, to, username, link))
}

// cheap argon2 parameters so tests stay fast
var testHasher = auth.NewArgon2idHasher(auth.Params{
	Time:    1,
	Memory:  1024,
	Threads: 1,
	SaltLen: 16,
	KeyLen:  32,
})
