package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/dbx"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores the user. Ids are uint64 in memory and BIGINT in the table;
// the conversion keeps the bit pattern.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, username, pass_hash, salt, created_at)
         VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		int64(user.ID), user.UserName, user.PassHash[:], user.Salt[:], user.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, username, pass_hash, salt, created_at FROM users
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var (
			id         int64
			hash, salt []byte
			user       = &models.User{}
		)
		if err := rows.Scan(&id, &user.UserName, &hash, &salt, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(hash) != common.HashSize || len(salt) != common.SaltSize {
			return nil, fmt.Errorf("user %d: corrupt credential", id)
		}
		user.ID = models.UserID(id)
		copy(user.PassHash[:], hash)
		copy(user.Salt[:], salt)
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
