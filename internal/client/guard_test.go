package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"game-catalog-backend/internal/models"
)

func TestGuard_Check(t *testing.T) {
	guest := Snapshot{}
	user := Snapshot{Authenticated: true, User: &models.User{ID: 2}, Token: "t"}
	admin := Snapshot{Authenticated: true, User: &models.User{ID: 1, Role: 1}, Token: "t", IsAdmin: true}

	g := NewGuard()
	tests := []struct {
		path string
		snap Snapshot
		want Decision
	}{
		{"/", guest, Decision{Redirect: "/login"}},
		{"/games", guest, Decision{Redirect: "/login"}},
		{"/game/42", guest, Decision{Redirect: "/login"}},
		{"/manage-games", guest, Decision{Redirect: "/login"}},
		{"/login", guest, Decision{Allow: true}},

		{"/", user, Decision{Allow: true}},
		{"/contact", user, Decision{Allow: true}},
		{"/game/42?tab=reviews", user, Decision{Allow: true}},
		{"/manage-games", user, Decision{Redirect: "/"}},
		{"/login", user, Decision{Redirect: "/"}},

		{"/manage-games", admin, Decision{Allow: true}},
		{"/login", admin, Decision{Redirect: "/"}},

		{"/unknown/page", guest, Decision{Redirect: "/login"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Check(tt.path, tt.snap), tt.path)
	}
}

func TestMatchPattern(t *testing.T) {
	assert.True(t, matchPattern("/game/:id", "/game/1"))
	assert.True(t, matchPattern("/games", "/games/"))
	assert.True(t, matchPattern("/", ""))
	assert.False(t, matchPattern("/game/:id", "/game"))
	assert.False(t, matchPattern("/game/:id", "/game/1/edit"))
	assert.False(t, matchPattern("/games", "/gamesx"))
}
