// Package registry tracks the live outbound handle of every connected session.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// Sender delivers one encoded text frame to a connection.
type Sender interface {
	Send(msg []byte) error
}

// Registry maps a session to at most one handle. Registering a session again
// replaces the previous handle.
type Registry struct {
	mu      sync.RWMutex
	senders map[models.SessionID]Sender
	logger  logging.Logger
}

func New(logger logging.Logger) *Registry {
	return &Registry{
		senders: make(map[models.SessionID]Sender),
		logger:  logger,
	}
}

func (r *Registry) Register(sid models.SessionID, s Sender) {
	r.mu.Lock()
	r.senders[sid] = s
	r.mu.Unlock()
}

func (r *Registry) Unregister(sid models.SessionID) {
	r.mu.Lock()
	delete(r.senders, sid)
	r.mu.Unlock()
}

// Release removes sid only while it is still bound to s. A connection that
// was superseded calls it on exit without evicting its successor.
func (r *Registry) Release(sid models.SessionID, s Sender) {
	r.mu.Lock()
	if cur, ok := r.senders[sid]; ok && cur == s {
		delete(r.senders, sid)
	}
	r.mu.Unlock()
}

// Deliver sends msg once to each registered session in sids and returns the
// number of successful sends. Sessions without a handle are skipped; a failed
// send is logged and does not affect the others.
func (r *Registry) Deliver(ctx context.Context, sids []models.SessionID, msg []byte) int {
	type target struct {
		sid models.SessionID
		s   Sender
	}

	seen := make(map[models.SessionID]struct{}, len(sids))
	targets := make([]target, 0, len(sids))

	r.mu.RLock()
	for _, sid := range sids {
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}
		if s, ok := r.senders[sid]; ok {
			targets = append(targets, target{sid, s})
		}
	}
	r.mu.RUnlock()

	delivered := 0
	for _, t := range targets {
		if err := t.s.Send(msg); err != nil {
			r.logger.Warn(ctx, "delivery failed",
				"session_id", t.sid.String(),
				"error", fmt.Errorf("%w: %v", common.ErrDeliveryFailure, err))
			continue
		}
		delivered++
	}
	return delivered
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.senders)
}
