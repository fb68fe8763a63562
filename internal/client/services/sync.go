package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tasksync/internal/client/client"
	"github.com/dmitrijs2005/tasksync/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/tasksync/internal/client/repositories/verifiers"
	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/cryptox"
	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrOffline     = errors.New("offline, changes are disabled")
	ErrNoSuchTask  = errors.New("no such task")
)

// SyncService owns the client's view of one user's task list.
//
// Online, every list pushed by the server replaces the local copy and is
// written to the snapshot cache. Edits are sent as whole lists and become
// authoritative only when the server echoes them back. Offline, the cached
// list is shown read-only once the password matches the verifier recorded at
// the last online login.
type SyncService struct {
	api       client.Client
	cache     snapshots.Repository
	verifiers verifiers.Repository
	hash      func(password string, salt [common.SaltSize]byte) [common.HashSize]byte
	logger    logging.Logger

	mu       sync.Mutex
	user     string
	current  models.Tasks
	stream   client.Stream
	onUpdate func(models.Tasks)

	// editMu orders edits so each one builds on the previous result.
	editMu sync.Mutex

	loops sync.WaitGroup
}

type Option func(*SyncService)

// WithHasher replaces the password hash used for offline verifiers.
func WithHasher(h func(password string, salt [common.SaltSize]byte) [common.HashSize]byte) Option {
	return func(s *SyncService) { s.hash = h }
}

func NewSyncService(api client.Client, cache snapshots.Repository, v verifiers.Repository, logger logging.Logger, opts ...Option) *SyncService {
	s := &SyncService{api: api, cache: cache, verifiers: v, hash: cryptox.HashPassword, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnUpdate sets a callback invoked with every list received from the server.
// It runs on the reader goroutine.
func (s *SyncService) OnUpdate(fn func(models.Tasks)) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

func (s *SyncService) Register(ctx context.Context, username, password string) error {
	return s.api.Register(ctx, username, password)
}

// Login authenticates and opens the sync stream. When the server cannot be
// reached, a cached list and a matching verifier put the service in offline
// mode and Login succeeds.
func (s *SyncService) Login(ctx context.Context, username, password string) error {
	if s.User() != "" {
		if err := s.Logout(ctx); err != nil {
			s.logger.Warn(ctx, "previous session cleanup failed", "error", err)
		}
	}

	err := s.api.Login(ctx, username, password)
	if errors.Is(err, client.ErrUnavailable) {
		return s.loginOffline(ctx, username, password, err)
	}
	if err != nil {
		return err
	}

	salt := cryptox.NewSalt()
	v := verifiers.Verifier{Salt: salt, Hash: s.hash(password, salt)}
	if err := s.verifiers.Set(ctx, username, v); err != nil {
		s.logger.Warn(ctx, "record offline verifier", "user", username, "error", err)
	}

	s.mu.Lock()
	s.user = username
	s.mu.Unlock()

	if err := s.connect(ctx); err != nil {
		s.mu.Lock()
		s.user = ""
		s.mu.Unlock()
		return err
	}
	return nil
}

// loginOffline shows the cached list of username if the password matches
// the recorded verifier. Without a verifier or a cached list it returns
// unavailable.
func (s *SyncService) loginOffline(ctx context.Context, username, password string, unavailable error) error {
	v, ok, err := s.verifiers.Get(ctx, username)
	if err != nil {
		return fmt.Errorf("load offline verifier: %w", err)
	}
	if !ok {
		return unavailable
	}

	cached, ok, err := s.cache.Load(ctx, username)
	if err != nil {
		return fmt.Errorf("load cached list: %w", err)
	}
	if !ok {
		return unavailable
	}

	if !cryptox.Equal(s.hash(password, v.Salt), v.Hash) {
		return common.ErrUnauthenticated
	}

	s.mu.Lock()
	s.user, s.current = username, cached
	s.mu.Unlock()
	s.logger.Info(ctx, "server unavailable, using cached list", "user", username)
	return nil
}

// Reconnect opens a new sync stream for the current user if none is open.
// The server's list replaces whatever was shown offline.
func (s *SyncService) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	user, open := s.user, s.stream != nil
	s.mu.Unlock()

	if user == "" {
		return ErrNotLoggedIn
	}
	if open {
		return nil
	}
	return s.connect(ctx)
}

func (s *SyncService) connect(ctx context.Context) error {
	stream, err := s.api.Connect(ctx)
	if err != nil {
		return err
	}

	first, err := stream.Next()
	if err != nil {
		_ = stream.Close()
		return fmt.Errorf("initial list: %w", err)
	}

	s.mu.Lock()
	user := s.user
	s.current, s.stream = first, stream
	s.mu.Unlock()

	s.save(ctx, user, first)

	s.loops.Add(1)
	go s.readLoop(user, stream)
	return nil
}

func (s *SyncService) readLoop(user string, stream client.Stream) {
	defer s.loops.Done()
	ctx := context.Background()

	for {
		tasks, err := stream.Next()
		if err != nil {
			s.mu.Lock()
			if s.stream == stream {
				s.stream = nil
			}
			s.mu.Unlock()
			s.logger.Info(ctx, "sync stream closed", "user", user, "error", err)
			return
		}

		s.mu.Lock()
		if s.stream != stream {
			s.mu.Unlock()
			return
		}
		s.current = tasks
		fn := s.onUpdate
		s.mu.Unlock()

		s.save(ctx, user, tasks)
		if fn != nil {
			fn(tasks.Clone())
		}
	}
}

func (s *SyncService) save(ctx context.Context, user string, tasks models.Tasks) {
	if err := s.cache.Save(ctx, user, tasks); err != nil {
		s.logger.Warn(ctx, "cache list", "user", user, "error", err)
	}
}

func (s *SyncService) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *SyncService) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

func (s *SyncService) Current() models.Tasks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *SyncService) Add(summary string) error {
	if strings.ContainsRune(summary, 0) {
		return fmt.Errorf("summary contains NUL: %w", common.ErrValidation)
	}
	return s.edit(func(t models.Tasks) (models.Tasks, error) {
		return AddTask(t, summary), nil
	})
}

func (s *SyncService) Remove(id int32) error {
	return s.edit(func(t models.Tasks) (models.Tasks, error) {
		next, ok := RemoveTask(t, id)
		if !ok {
			return t, ErrNoSuchTask
		}
		return next, nil
	})
}

// edit sends the changed list and shows it locally until the echo arrives.
// The send runs without mu, so readers are not held up by a slow network.
func (s *SyncService) edit(change func(models.Tasks) (models.Tasks, error)) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	s.mu.Lock()
	if s.user == "" {
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	stream := s.stream
	if stream == nil {
		s.mu.Unlock()
		return ErrOffline
	}
	next, err := change(s.current)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := stream.Send(next); err != nil {
		return fmt.Errorf("send list: %w", err)
	}

	s.mu.Lock()
	if s.stream == stream {
		s.current = next
	}
	s.mu.Unlock()
	return nil
}

// Logout closes the stream, revokes the server session and forgets the
// cached list and verifier. An unreachable server is not an error.
func (s *SyncService) Logout(ctx context.Context) error {
	s.mu.Lock()
	user, stream := s.user, s.stream
	s.user, s.current, s.stream = "", models.Tasks{}, nil
	s.mu.Unlock()

	if user == "" {
		return ErrNotLoggedIn
	}
	if stream != nil {
		_ = stream.Close()
	}
	s.loops.Wait()

	var errs []error
	if err := s.api.Logout(ctx); err != nil && !errors.Is(err, client.ErrUnavailable) {
		errs = append(errs, err)
	}
	if err := s.cache.Delete(ctx, user); err != nil {
		errs = append(errs, err)
	}
	if err := s.verifiers.Delete(ctx, user); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close drops the stream but keeps the session and the cache.
func (s *SyncService) Close() error {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()

	var err error
	if stream != nil {
		err = stream.Close()
	}
	s.loops.Wait()
	return err
}
