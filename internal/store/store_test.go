package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))

	u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: 0}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = users.GetByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))
	require.NoError(t, users.Create(ctx, &models.User{Username: "alice", Email: "alice@example.com", Password: "h"}))

	tests := []struct {
		name  string
		user  models.User
		field string
	}{
		{"same username", models.User{Username: "alice", Email: "other@example.com", Password: "h"}, "username"},
		{"same email", models.User{Username: "bob", Email: "alice@example.com", Password: "h"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := users.Create(ctx, &u)
			var dup *DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.field, dup.Field)
		})
	}
}

func TestUserStore_ListOmitsPassword(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))
	require.NoError(t, users.Create(ctx, &models.User{Username: "alice", Email: "a@example.com", Password: "secret-hash"}))
	require.NoError(t, users.Create(ctx, &models.User{Username: "bob", Email: "b@example.com", Password: "secret-hash", Role: 1}))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.Empty(t, u.Password)
	}
	assert.Equal(t, "alice", list[0].Username)
	assert.True(t, list[1].IsAdmin())
}

func TestUserStore_Exists(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))
	require.NoError(t, users.Create(ctx, &models.User{Username: "alice", Email: "alice@example.com", Password: "h"}))

	res, err := users.Exists(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, models.ExistsResult{Username: true}, res)

	res, err = users.Exists(ctx, "", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.ExistsResult{Email: true}, res)

	res, err = users.Exists(ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.ExistsResult{Email: true}, res)

	res, err = users.Exists(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.ExistsResult{}, res)
}

func TestUserStore_Update(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))
	u := &models.User{Username: "alice", Email: "alice@example.com", Password: "old"}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.Create(ctx, &models.User{Username: "bob", Email: "bob@example.com", Password: "h"}))

	require.NoError(t, users.Update(ctx, u.ID, UserUpdate{Username: "alicia", Email: "alice@example.com"}))
	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(t, "old", got.Password, "password kept when not supplied")
	assert.Equal(t, 0, got.Role)

	admin := 1
	require.NoError(t, users.Update(ctx, u.ID, UserUpdate{Username: "alicia", Email: "alice@example.com", Password: "new", Role: &admin}))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Password)
	assert.Equal(t, 1, got.Role)

	err = users.Update(ctx, u.ID, UserUpdate{Username: "bob", Email: "alice@example.com"})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	err = users.Update(ctx, 9999, UserUpdate{Username: "ghost", Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Delete(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(testutil.NewDB(t))
	u := &models.User{Username: "alice", Email: "alice@example.com", Password: "h"}
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, users.Delete(ctx, u.ID))
	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrNotFound)
}

func TestGameStore_CRUD(t *testing.T) {
	ctx := context.Background()
	games := NewGameStore(testutil.NewDB(t))

	img := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	id, err := games.Create(ctx, models.GameInput{Title: "Chess", Content: "Classic", AgeRating: models.Rating(3), Image: img, ImageType: "image/png"})
	require.NoError(t, err)

	g, err := games.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chess", g.Title)
	assert.Equal(t, img, g.Image)
	assert.Equal(t, "image/png", g.ImageType)
	assert.Equal(t, 3, g.AgeRating)

	require.NoError(t, games.Update(ctx, id, models.GameInput{Title: "Chess 2", Content: "Sequel", AgeRating: models.Rating(7)}))
	g, err = games.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chess 2", g.Title)
	assert.Equal(t, 7, g.AgeRating)
	assert.Equal(t, img, g.Image, "image kept when update has none")

	gif := []byte("GIF89a-data")
	require.NoError(t, games.Update(ctx, id, models.GameInput{Title: "Chess 2", Content: "Sequel", Image: gif, ImageType: "image/gif"}))
	data, mimeType, err := games.Image(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, gif, data)
	assert.Equal(t, "image/gif", mimeType)
	g, err = games.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, g.AgeRating, "rating kept when update has none")

	list, err := games.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, games.Delete(ctx, id))
	_, err = games.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, games.Delete(ctx, id), ErrNotFound)
	assert.ErrorIs(t, games.Update(ctx, id, models.GameInput{Title: "x", Content: "y"}), ErrNotFound)
	_, _, err = games.Image(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageContentStore_Upsert(t *testing.T) {
	ctx := context.Background()
	pages := NewPageContentStore(testutil.NewDB(t))

	_, err := pages.GetActive(ctx, "footer")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := pages.Upsert(ctx, "footer", "new footer")
	require.NoError(t, err)
	assert.Equal(t, "new footer", created.Content)
	assert.True(t, created.Active)

	updated, err := pages.Upsert(ctx, "footer", "second footer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "row id must be stable across updates")
	assert.Equal(t, "second footer", updated.Content)

	active, err := pages.GetActive(ctx, "footer")
	require.NoError(t, err)
	assert.Equal(t, "second footer", active.Content)

	other, err := pages.Upsert(ctx, "home_page", "welcome")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}
