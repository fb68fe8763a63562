package client

import (
	"context"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Connect(ctx context.Context) (Stream, error)
}

// Stream is an open sync connection. Next blocks for the next list pushed by
// the server; the first one is the current state.
type Stream interface {
	Next() (models.Tasks, error)
	Send(tasks models.Tasks) error
	Close() error
}
