// Package credentials registers users and verifies their passwords.
package credentials

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/cryptox"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
	"github.com/dmitrijs2005/tasksync/internal/server/repositories/users"
)

// Hasher computes the stored credential for a password under a salt.
type Hasher func(password string, salt [common.SaltSize]byte) [common.HashSize]byte

type Store struct {
	mu    sync.RWMutex
	users map[models.UserID]*models.User
	// pending holds names and ids reserved by registrations whose
	// repository write is still in flight.
	pending map[models.UserID]string

	newID   common.IDSource
	newSalt func() [common.SaltSize]byte
	hash    Hasher
	repo    users.Repository
	now     func() time.Time
}

type Option func(*Store)

func WithIDSource(src common.IDSource) Option {
	return func(s *Store) { s.newID = src }
}

func WithHasher(h Hasher) Option {
	return func(s *Store) { s.hash = h }
}

// WithRepository mirrors every registration into repo.
func WithRepository(repo users.Repository) Option {
	return func(s *Store) { s.repo = repo }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users:   make(map[models.UserID]*models.User),
		pending: make(map[models.UserID]string),
		newID:   common.RandomUint64,
		newSalt: cryptox.NewSalt,
		hash:    cryptox.HashPassword,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory users with the repository contents.
// Without a repository it does nothing.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	loaded := make(map[models.UserID]*models.User, len(list))
	for _, u := range list {
		loaded[u.ID] = u
	}

	s.mu.Lock()
	s.users = loaded
	s.mu.Unlock()

	return nil
}

// Register creates an account. The slow hash runs before the lock is taken.
// The name and id are reserved under the lock, the repository write runs
// without it, and the user becomes visible only once the write succeeded.
func (s *Store) Register(ctx context.Context, username, password string) (models.UserID, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("username and password are required: %w", common.ErrValidation)
	}

	salt := s.newSalt()
	hash := s.hash(password, salt)

	id, err := s.reserve(username)
	if err != nil {
		return 0, err
	}

	user := &models.User{
		ID:        id,
		UserName:  username,
		PassHash:  hash,
		Salt:      salt,
		CreatedAt: s.now().UTC(),
	}

	var createErr error
	if s.repo != nil {
		createErr = s.repo.Create(ctx, user)
	}

	s.mu.Lock()
	delete(s.pending, id)
	if createErr == nil {
		s.users[id] = user
	}
	s.mu.Unlock()

	if createErr != nil {
		return 0, fmt.Errorf("error creating user: %w", createErr)
	}
	return id, nil
}

// reserve claims username and a fresh id for an in-flight registration.
func (s *Store) reserve(username string) (models.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.UserName == username {
			return 0, common.ErrConflict
		}
	}
	for _, name := range s.pending {
		if name == username {
			return 0, common.ErrConflict
		}
	}

	id, err := s.mintLocked()
	if err != nil {
		return 0, err
	}
	s.pending[id] = username
	return id, nil
}

func (s *Store) mintLocked() (models.UserID, error) {
	for i := 0; i < common.MaxMintAttempts; i++ {
		v, err := s.newID()
		if err != nil {
			return 0, fmt.Errorf("mint user id: %w", err)
		}
		id := models.UserID(v)
		_, taken := s.users[id]
		_, reserved := s.pending[id]
		if !taken && !reserved {
			return id, nil
		}
	}
	return 0, common.ErrIDSpaceExhausted
}

// Verify returns the id of the user whose name and password match.
// Names are compared by a linear scan; the hash is computed only on a
// name match, so response time reveals whether a name exists.
func (s *Store) Verify(ctx context.Context, username, password string) (models.UserID, error) {
	var (
		found bool
		id    models.UserID
		salt  [common.SaltSize]byte
		want  [common.HashSize]byte
	)

	s.mu.RLock()
	for _, u := range s.users {
		if u.UserName == username {
			found, id, salt, want = true, u.ID, u.Salt, u.PassHash
			break
		}
	}
	s.mu.RUnlock()

	if !found {
		return 0, common.ErrUnauthenticated
	}

	got := s.hash(password, salt)
	if !cryptox.Equal(got, want) {
		return 0, common.ErrUnauthenticated
	}

	return id, nil
}

// Exists reports whether id names a registered user.
func (s *Store) Exists(id models.UserID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}
