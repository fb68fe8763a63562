package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tasksync/internal/dbx"
	"github.com/dmitrijs2005/tasksync/internal/server/repositories/tasklists"
	"github.com/dmitrijs2005/tasksync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	TaskLists(db dbx.DBTX) tasklists.Repository
}
