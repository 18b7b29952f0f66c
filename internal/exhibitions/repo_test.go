package exhibitions

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artefacthub/pkg/database"
	"artefacthub/pkg/models"
)

const testUserID = "user-1"

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// each pooled connection would otherwise get its own empty in-memory DB
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	require.NoError(t, database.MigrateSchema(db, string(schema)))

	// exhibitions.user_id has a foreign key on users
	_, err = db.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, 'tester', 'tester@example.com', 'x')
	`, testUserID)
	require.NoError(t, err)

	return NewRepo(db)
}

func TestRepoCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUserID, "Medieval Psalters")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []models.NormalizedItem{}, created.SavedItems)

	got, err := repo.Get(ctx, created.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Medieval Psalters", got.Name)
	assert.Equal(t, testUserID, got.UserID)
	assert.Empty(t, got.SavedItems)
}

func TestRepoGetHidesOtherUsersExhibitions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUserID, "Private")
	require.NoError(t, err)

	_, err = repo.Get(ctx, created.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Get(ctx, "no-such-id", testUserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepoAddItemRejectsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ex, err := repo.Create(ctx, testUserID, "Vases")
	require.NoError(t, err)

	item := models.NormalizedItem{
		Title:  "Amphora",
		Source: "https://example.org/amphora",
	}
	updated, err := repo.AddItem(ctx, ex.ID, testUserID, item)
	require.NoError(t, err)
	assert.Len(t, updated.SavedItems, 1)

	// same (title, source) pair, even with different metadata
	dup := item
	dup.Description = "a different description"
	_, err = repo.AddItem(ctx, ex.ID, testUserID, dup)
	assert.ErrorIs(t, err, ErrDuplicateItem)

	got, err := repo.Get(ctx, ex.ID, testUserID)
	require.NoError(t, err)
	assert.Len(t, got.SavedItems, 1)

	// same title from a different source is a different artifact
	other := models.NormalizedItem{Title: "Amphora", Source: "https://other.org/amphora"}
	updated, err = repo.AddItem(ctx, ex.ID, testUserID, other)
	require.NoError(t, err)
	assert.Len(t, updated.SavedItems, 2)
}

func TestRepoReplaceItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ex, err := repo.Create(ctx, testUserID, "Coins")
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, ex.ID, testUserID, models.NormalizedItem{Title: "Denarius", Source: "s1"})
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, ex.ID, testUserID, models.NormalizedItem{Title: "Solidus", Source: "s2"})
	require.NoError(t, err)

	kept := []models.NormalizedItem{{Title: "Solidus", Source: "s2"}}
	updated, err := repo.ReplaceItems(ctx, ex.ID, testUserID, kept)
	require.NoError(t, err)
	assert.Equal(t, kept, updated.SavedItems)

	got, err := repo.Get(ctx, ex.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, kept, got.SavedItems)

	// nil clears the collection rather than storing null
	updated, err = repo.ReplaceItems(ctx, ex.ID, testUserID, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.NormalizedItem{}, updated.SavedItems)

	got, err = repo.Get(ctx, ex.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, []models.NormalizedItem{}, got.SavedItems)
}

func TestRepoListByUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testUserID, "First")
	require.NoError(t, err)
	_, err = repo.Create(ctx, testUserID, "Second")
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.ListByUser(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepoDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ex, err := repo.Create(ctx, testUserID, "Doomed")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, ex.ID, "someone-else"), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, ex.ID, testUserID))
	_, err = repo.Get(ctx, ex.ID, testUserID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, ex.ID, testUserID), ErrNotFound)
}
