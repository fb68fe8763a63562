// Package tasklists stores each user's task list: one task_lists row with the
// client's next_id and one tasks row per task, ordered by position.
package tasklists

import (
	"context"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type Repository interface {
	// UpsertList creates or updates the list header of userID.
	UpsertList(ctx context.Context, userID models.UserID, nextID int32) error

	// DeleteTasks removes every task of userID.
	DeleteTasks(ctx context.Context, userID models.UserID) error

	// InsertTask stores task at position in the list of userID.
	InsertTask(ctx context.Context, userID models.UserID, position int, task models.Task) error

	// ListAll returns every stored list keyed by owner.
	ListAll(ctx context.Context) (map[models.UserID]models.Tasks, error)
}
