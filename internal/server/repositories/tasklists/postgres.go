package tasklists

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasksync/internal/dbx"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertList(ctx context.Context, userID models.UserID, nextID int32) error {
	query :=
		`INSERT INTO task_lists (user_id, next_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET next_id = EXCLUDED.next_id
		 `

	if _, err := r.db.ExecContext(ctx, query, int64(userID), nextID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteTasks(ctx context.Context, userID models.UserID) error {
	query := `DELETE FROM tasks WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, int64(userID)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertTask(ctx context.Context, userID models.UserID, position int, task models.Task) error {
	query :=
		`INSERT INTO tasks (user_id, position, id, summary)
         VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, int64(userID), position, task.ID, task.Summary); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListAll reads headers first so that lists without tasks are restored too.
func (r *PostgresRepository) ListAll(ctx context.Context) (map[models.UserID]models.Tasks, error) {
	result := make(map[models.UserID]models.Tasks)

	rows, err := r.db.QueryContext(ctx, `SELECT user_id, next_id FROM task_lists`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for rows.Next() {
		var (
			uid    int64
			nextID int32
		)
		if err := rows.Scan(&uid, &nextID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[models.UserID(uid)] = models.Tasks{Tasks: []models.Task{}, NextID: nextID}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT user_id, id, summary FROM tasks
		 ORDER BY user_id, position
		 `

	rows, err = r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uid  int64
			task models.Task
		)
		if err := rows.Scan(&uid, &task.ID, &task.Summary); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list := result[models.UserID(uid)]
		list.Tasks = append(list.Tasks, task)
		result[models.UserID(uid)] = list
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
