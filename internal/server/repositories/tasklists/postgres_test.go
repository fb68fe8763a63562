package tasklists

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

const (
	upsertQ  = `(?s)^INSERT\s+INTO\s+task_lists\s*\(user_id,\s*next_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(user_id\)\s*DO\s+UPDATE\s+SET\s+next_id\s*=\s*EXCLUDED\.next_id\s*$`
	deleteQ  = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	insertQ  = `(?s)^INSERT\s+INTO\s+tasks\s*\(user_id,\s*position,\s*id,\s*summary\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	headersQ = `(?s)^SELECT\s+user_id,\s*next_id\s+FROM\s+task_lists\s*$`
	tasksQ   = `(?s)^SELECT\s+user_id,\s*id,\s*summary\s+FROM\s+tasks\s+ORDER\s+BY\s+user_id,\s*position\s*$`
)

func TestUpsertList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQ).WithArgs(int64(7), int32(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertList(context.Background(), 7, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTasks_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs(int64(7)).WillReturnError(errors.New("boom"))

	err := repo.DeleteTasks(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestInsertTask(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WithArgs(int64(7), 0, int32(1), "buy milk").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertTask(context.Background(), 7, 0, models.Task{ID: 1, Summary: "buy milk"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(headersQ).WillReturnRows(
		sqlmock.NewRows([]string{"user_id", "next_id"}).
			AddRow(int64(1), int32(2)).
			AddRow(int64(2), int32(0)))
	mock.ExpectQuery(tasksQ).WillReturnRows(
		sqlmock.NewRows([]string{"user_id", "id", "summary"}).
			AddRow(int64(1), int32(0), "a").
			AddRow(int64(1), int32(1), "b"))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Tasks{Tasks: []models.Task{{ID: 0, Summary: "a"}, {ID: 1, Summary: "b"}}, NextID: 2}, got[1])
	assert.Equal(t, models.Tasks{Tasks: []models.Task{}, NextID: 0}, got[2])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(headersQ).WillReturnError(errors.New("db down"))

	_, err := repo.ListAll(context.Background())
	assert.Error(t, err)
}
