// Package snapshots caches the last task list each local user received, so
// the client can show it while the server is unreachable.
package snapshots

import (
	"context"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type Repository interface {
	// Save stores tasks as the latest list of username.
	Save(ctx context.Context, username string, tasks models.Tasks) error

	// Load returns the cached list of username. The boolean is false when
	// nothing is cached.
	Load(ctx context.Context, username string) (models.Tasks, bool, error)

	// Delete drops the cached list of username.
	Delete(ctx context.Context, username string) error
}
