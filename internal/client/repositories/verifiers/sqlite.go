package verifiers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Set(ctx context.Context, username string, v Verifier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verifiers (username, salt, verifier) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET salt = excluded.salt, verifier = excluded.verifier
	`, username, v.Salt[:], v.Hash[:])
	if err != nil {
		return fmt.Errorf("failed to set verifier[%s]: %w", username, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (Verifier, bool, error) {
	var salt, hash []byte
	err := r.db.QueryRowContext(ctx, `SELECT salt, verifier FROM verifiers WHERE username = ?`, username).Scan(&salt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Verifier{}, false, nil
	}
	if err != nil {
		return Verifier{}, false, fmt.Errorf("failed to get verifier[%s]: %w", username, err)
	}
	if len(salt) != common.SaltSize || len(hash) != common.HashSize {
		return Verifier{}, false, fmt.Errorf("verifier[%s]: corrupt row", username)
	}

	var v Verifier
	copy(v.Salt[:], salt)
	copy(v.Hash[:], hash)
	return v, true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verifiers WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete verifier[%s]: %w", username, err)
	}
	return nil
}
