// Package broadcast commits a user's new list and fans it out to every live
// connection of that user.
package broadcast

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
	"github.com/dmitrijs2005/tasksync/internal/server/protocol"
)

type TaskStore interface {
	Replace(ctx context.Context, userID models.UserID, tasks models.Tasks) error
}

type SessionLister interface {
	SessionsOf(userID models.UserID) []models.SessionID
}

type Deliverer interface {
	Deliver(ctx context.Context, sids []models.SessionID, msg []byte) int
}

type Broadcaster struct {
	tasks    TaskStore
	sessions SessionLister
	conns    Deliverer
	logger   logging.Logger
}

func New(tasks TaskStore, sessions SessionLister, conns Deliverer, logger logging.Logger) *Broadcaster {
	return &Broadcaster{tasks: tasks, sessions: sessions, conns: conns, logger: logger}
}

// ApplyAndBroadcast stores tasks as the list of userID and pushes it to all
// of that user's connections, the sender included. A persistence failure is
// logged; live clients still receive the update. It returns the number of
// connections reached.
func (b *Broadcaster) ApplyAndBroadcast(ctx context.Context, userID models.UserID, tasks models.Tasks) (int, error) {
	if err := b.tasks.Replace(ctx, userID, tasks); err != nil {
		b.logger.Error(ctx, "task list not persisted", "user_id", userID.String(), "error", err)
	}

	frame, err := protocol.EncodeNewTasks(tasks)
	if err != nil {
		return 0, fmt.Errorf("encode new_tasks: %w", err)
	}

	sids := b.sessions.SessionsOf(userID)
	n := b.conns.Deliver(ctx, sids, frame)

	b.logger.Debug(ctx, "broadcast", "user_id", userID.String(), "sessions", len(sids), "delivered", n)
	return n, nil
}
