package tasks

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tasksync/internal/dbx"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
	"github.com/dmitrijs2005/tasksync/internal/server/repositories/repomanager"
)

// DBPersister writes each list in one transaction: upsert the header, drop
// the old tasks, insert the new ones in order.
type DBPersister struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDBPersister(db *sql.DB, m repomanager.RepositoryManager) *DBPersister {
	return &DBPersister{db: db, repomanager: m}
}

func (p *DBPersister) Save(ctx context.Context, userID models.UserID, tasks models.Tasks) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.repomanager.TaskLists(tx)
		if err := repo.UpsertList(ctx, userID, tasks.NextID); err != nil {
			return err
		}
		if err := repo.DeleteTasks(ctx, userID); err != nil {
			return err
		}
		for pos, t := range tasks.Tasks {
			if err := repo.InsertTask(ctx, userID, pos, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *DBPersister) LoadAll(ctx context.Context) (map[models.UserID]models.Tasks, error) {
	return p.repomanager.TaskLists(p.db).ListAll(ctx)
}
