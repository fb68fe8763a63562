// Package verifiers keeps, per local user, a salted password hash recorded at
// the last successful online login. It lets offline mode check the password
// before showing a cached list.
package verifiers

import (
	"context"

	"github.com/dmitrijs2005/tasksync/internal/common"
)

type Verifier struct {
	Salt [common.SaltSize]byte
	Hash [common.HashSize]byte
}

type Repository interface {
	Set(ctx context.Context, username string, v Verifier) error

	// Get returns the verifier of username. The boolean is false when none
	// was recorded.
	Get(ctx context.Context, username string) (Verifier, bool, error)

	Delete(ctx context.Context, username string) error
}
