package snapshots

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE snapshots (
  username   TEXT PRIMARY KEY,
  payload    BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

var milk = models.Tasks{Tasks: []models.Task{{ID: 0, Summary: "buy milk"}}, NextID: 1}

func TestSaveAndLoad(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "alice", milk))

	got, ok, err := r.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, milk, got)
}

func TestLoad_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, ok, err := r.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.Tasks{}, got)
}

func TestSave_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "alice", milk))
	require.NoError(t, r.Save(ctx, "alice", models.Tasks{}))

	got, ok, err := r.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.Tasks{Tasks: []models.Task{}}, got)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "alice", milk))
	require.NoError(t, r.Save(ctx, "bob", milk))
	require.NoError(t, r.Delete(ctx, "alice"))
	require.NoError(t, r.Delete(ctx, "alice"))

	_, ok, err := r.Load(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.Load(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}
