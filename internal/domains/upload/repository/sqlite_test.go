package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/domains/upload"
	"kinex-backend/internal/testutil"
)

func TestSQLiteRepository_OwnedURLs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	repo := NewSQLiteRepository(db)
	alice := testutil.InsertUser(t, db, "alice@example.com")
	bob := testutil.InsertUser(t, db, "bob@example.com")

	record := func(key string, owner uuid.UUID) {
		require.NoError(t, repo.Record(ctx, &upload.Upload{
			Key:       key,
			OwnerID:   owner,
			FileURL:   "https://cdn/" + key,
			CreatedAt: time.Now(),
		}))
	}
	record("images/a.png", alice)
	record("images/b.png", bob)

	owned, err := repo.OwnedURLs(ctx, alice, []string{
		"https://cdn/images/a.png",
		"https://cdn/images/b.png",
		"https://elsewhere/c.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/images/a.png"}, owned)

	owned, err = repo.OwnedURLs(ctx, bob, []string{"https://cdn/images/a.png"})
	require.NoError(t, err)
	assert.Empty(t, owned)

	owned, err = repo.OwnedURLs(ctx, alice, nil)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestSQLiteRepository_RecordDuplicateKey(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	repo := NewSQLiteRepository(db)
	alice := testutil.InsertUser(t, db, "alice@example.com")

	u := &upload.Upload{Key: "images/a.png", OwnerID: alice, FileURL: "https://cdn/images/a.png", CreatedAt: time.Now()}
	require.NoError(t, repo.Record(ctx, u))
	assert.Error(t, repo.Record(ctx, u))
}
