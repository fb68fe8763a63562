// Package users declares the durable storage contract for accounts and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

// Repository persists registered users. The credential store keeps the
// authoritative in-memory copy; the repository mirrors it and restores it
// on start.
type Repository interface {
	// Create inserts user. A duplicate id or username is an error.
	Create(ctx context.Context, user *models.User) error

	// List returns every stored user.
	List(ctx context.Context) ([]*models.User, error)
}
