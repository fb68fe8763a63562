package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasksync/internal/dbx"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, username string, tasks models.Tasks) error {
	payload, err := json.Marshal(tasks.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (username, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, username, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot[%s]: %w", username, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, username string) (models.Tasks, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE username = ?`, username).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tasks{}, false, nil
	}
	if err != nil {
		return models.Tasks{}, false, fmt.Errorf("failed to load snapshot[%s]: %w", username, err)
	}

	var tasks models.Tasks
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return models.Tasks{}, false, fmt.Errorf("failed to decode snapshot[%s]: %w", username, err)
	}
	return tasks.Clone(), true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w", username, err)
	}
	return nil
}
