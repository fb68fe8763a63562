package credentials

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

func fastHash(password string, salt [common.SaltSize]byte) [common.HashSize]byte {
	return sha256.Sum256(append(salt[:], password...))
}

// seqIDs returns the given ids in order and then repeats the last one.
func seqIDs(ids ...uint64) common.IDSource {
	var i int
	var mu sync.Mutex
	return func() (uint64, error) {
		mu.Lock()
		defer mu.Unlock()
		v := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return v, nil
	}
}

type fakeRepo struct {
	mu      sync.Mutex
	created []*models.User
	list    []*models.User
	err     error
}

func (f *fakeRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, u)
	return nil
}

func (f *fakeRepo) List(context.Context) ([]*models.User, error) {
	return f.list, f.err
}

func TestRegisterThenVerify(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))

	id, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	got, err := s.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, s.Exists(id))
}

func TestRegister_DefaultHasher(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	got, err := s.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Verify(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRegister_Conflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))

	_, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrConflict)

	// the original password still works
	_, err = s.Verify(ctx, "alice", "pw1")
	assert.NoError(t, err)
	_, err = s.Verify(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRegister_UsernameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))

	a, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	b, err := s.Register(ctx, "Alice", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRegister_EmptyFields(t *testing.T) {
	s := NewStore(WithHasher(fastHash))

	_, err := s.Register(context.Background(), "", "pw")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = s.Register(context.Background(), "bob", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_RetriesOnIDCollision(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash), WithIDSource(seqIDs(5, 5, 9)))

	a, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	b, err := s.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	assert.Equal(t, models.UserID(5), a)
	assert.Equal(t, models.UserID(9), b)
}

func TestRegister_IDSpaceExhausted(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash), WithIDSource(seqIDs(7)))

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "bob", "pw")
	assert.ErrorIs(t, err, common.ErrIDSpaceExhausted)

	_, err = s.Verify(ctx, "bob", "pw")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRegister_IDSourceError(t *testing.T) {
	boom := errors.New("entropy")
	s := NewStore(WithHasher(fastHash), WithIDSource(func() (uint64, error) { return 0, boom }))

	_, err := s.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, boom)
}

func TestVerify_UnknownUserAndWrongPassword(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))
	_, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.Verify(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = s.Verify(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestVerify_HashesOnlyOnNameMatch(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	counting := func(p string, salt [common.SaltSize]byte) [common.HashSize]byte {
		calls.Add(1)
		return fastHash(p, salt)
	}
	s := NewStore(WithHasher(counting))
	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	calls.Store(0)

	_, _ = s.Verify(ctx, "nobody", "pw")
	assert.Equal(t, int32(0), calls.Load())

	_, _ = s.Verify(ctx, "alice", "pw")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRegister_ConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))

	const n = 32
	var ok, conflict atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(ctx, "alice", "pw")
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, common.ErrConflict):
				conflict.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), conflict.Load())
}

func TestRegister_WritesThrough(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	s := NewStore(WithHasher(fastHash), WithRepository(repo))

	id, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, id, repo.created[0].ID)
	assert.Equal(t, "alice", repo.created[0].UserName)
}

func TestRegister_RepositoryErrorLeavesNoUser(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{err: errors.New("db down")}
	s := NewStore(WithHasher(fastHash), WithRepository(repo))

	_, err := s.Register(ctx, "alice", "pw")
	require.Error(t, err)

	_, err = s.Verify(ctx, "alice", "pw")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestLoad_RestoresUsers(t *testing.T) {
	ctx := context.Background()

	// register into one store, then restore a second one from the same records
	repo := &fakeRepo{}
	first := NewStore(WithHasher(fastHash), WithRepository(repo))
	id, err := first.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	repo.list = repo.created
	second := NewStore(WithHasher(fastHash), WithRepository(repo))
	require.NoError(t, second.Load(ctx))

	got, err := second.Verify(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestLoad_NoRepository(t *testing.T) {
	assert.NoError(t, NewStore().Load(context.Background()))
}

func TestLoad_Error(t *testing.T) {
	s := NewStore(WithRepository(&fakeRepo{err: errors.New("db down")}))
	assert.Error(t, s.Load(context.Background()))
}

type slowRepo struct {
	entered chan struct{}
	release chan struct{}
	err     error
}

func (r *slowRepo) Create(context.Context, *models.User) error {
	close(r.entered)
	<-r.release
	return r.err
}

func (r *slowRepo) List(context.Context) ([]*models.User, error) {
	return nil, nil
}

func TestRegister_SlowRepositoryDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithHasher(fastHash))
	aliceID, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	repo := &slowRepo{entered: make(chan struct{}), release: make(chan struct{})}
	s.repo = repo

	slow := make(chan error, 1)
	go func() {
		_, err := s.Register(ctx, "bob", "pw")
		slow <- err
	}()
	<-repo.entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := s.Verify(ctx, "alice", "pw")
		assert.NoError(t, err)
		assert.Equal(t, aliceID, got)
		assert.True(t, s.Exists(aliceID))

		// the name is reserved while its write is in flight
		_, err = s.Register(ctx, "bob", "other")
		assert.ErrorIs(t, err, common.ErrConflict)

		// and not yet visible to logins
		_, err = s.Verify(ctx, "bob", "pw")
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		close(repo.release)
		t.Fatal("store calls waited on an in-flight repository write")
	}

	close(repo.release)
	require.NoError(t, <-slow)

	_, err = s.Verify(ctx, "bob", "pw")
	assert.NoError(t, err)
}

func TestRegister_FailedWriteReleasesName(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{err: errors.New("db down")}
	s := NewStore(WithHasher(fastHash), WithRepository(repo), WithIDSource(seqIDs(7)))

	_, err := s.Register(ctx, "alice", "pw")
	require.Error(t, err)

	repo.err = nil
	id, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.UserID(7), id)
}
