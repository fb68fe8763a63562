// Package tasks keeps the current task list of every user.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// Persister mirrors lists to durable storage.
type Persister interface {
	Save(ctx context.Context, userID models.UserID, tasks models.Tasks) error
	LoadAll(ctx context.Context) (map[models.UserID]models.Tasks, error)
}

// Store is last-writer-wins: Replace overwrites the whole list.
type Store struct {
	mu    sync.RWMutex
	lists map[models.UserID]models.Tasks

	// writers holds one lock per user, taken across the memory swap and the
	// save so storage sees that user's replacements in memory order. Writers
	// of different users never wait for each other. Guarded by mu.
	writers   map[models.UserID]*sync.Mutex
	persister Persister
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		lists:   make(map[models.UserID]models.Tasks),
		writers: make(map[models.UserID]*sync.Mutex),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns a copy of the list of userID, or an empty list.
func (s *Store) Get(userID models.UserID) models.Tasks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists[userID].Clone()
}

// Replace stores tasks as the list of userID. The in-memory value is replaced
// even when persisting fails; the persistence error is returned.
func (s *Store) Replace(ctx context.Context, userID models.UserID, tasks models.Tasks) error {
	s.mu.Lock()
	w, ok := s.writers[userID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[userID] = w
	}
	s.mu.Unlock()

	w.Lock()
	defer w.Unlock()

	s.mu.Lock()
	s.lists[userID] = tasks.Clone()
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, userID, tasks); err != nil {
		return fmt.Errorf("persist tasks of user %s: %w", userID, err)
	}
	return nil
}

// Load replaces every list with the persisted ones.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	all, err := s.persister.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.mu.Lock()
	s.lists = make(map[models.UserID]models.Tasks, len(all))
	for uid, list := range all {
		s.lists[uid] = list.Clone()
	}
	s.mu.Unlock()

	return nil
}
