// Package sessions maps opaque session ids to the users that own them.
package sessions

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// Manager holds active sessions in memory only. A restart logs every user out.
type Manager struct {
	mu       sync.RWMutex
	sessions map[models.SessionID]models.UserID
	newID    common.IDSource
}

type Option func(*Manager)

func WithIDSource(src common.IDSource) Option {
	return func(m *Manager) { m.newID = src }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[models.SessionID]models.UserID),
		newID:    common.RandomUint64,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Login opens a new session for userID.
func (m *Manager) Login(userID models.UserID) (models.SessionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < common.MaxMintAttempts; i++ {
		v, err := m.newID()
		if err != nil {
			return 0, fmt.Errorf("mint session id: %w", err)
		}
		sid := models.SessionID(v)
		if _, taken := m.sessions[sid]; taken {
			continue
		}
		m.sessions[sid] = userID
		return sid, nil
	}

	return 0, common.ErrIDSpaceExhausted
}

func (m *Manager) Resolve(sid models.SessionID) (models.UserID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uid, ok := m.sessions[sid]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return uid, nil
}

// SessionsOf lists the active sessions of userID in no particular order.
func (m *Manager) SessionsOf(userID models.UserID) []models.SessionID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.SessionID
	for sid, uid := range m.sessions {
		if uid == userID {
			out = append(out, sid)
		}
	}
	return out
}

// Logout revokes sid. Unknown ids are ignored.
func (m *Manager) Logout(sid models.SessionID) {
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}
