package cli

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/server"
	"game-catalog-backend/internal/store"
	"game-catalog-backend/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCreateAdmin(t *testing.T) {
	users := store.NewUserStore(testutil.NewDB(t))

	id, err := createAdmin(t.Context(), users, "root", "root@example.com", "root1")
	require.NoError(t, err)

	u, err := users.GetByID(t.Context(), id)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	_, err = createAdmin(t.Context(), users, "root", "other@example.com", "root1")
	assert.ErrorContains(t, err, "already exists")

	_, err = createAdmin(t.Context(), users, "r00t", "x@example.com", "root1")
	assert.Error(t, err)
	_, err = createAdmin(t.Context(), users, "rooty", "x@example.com", "rootroot")
	assert.Error(t, err)
}

func TestClientCommands(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	_, err := createAdmin(t.Context(), users, "root", "root@example.com", "root1")
	require.NoError(t, err)

	router, err := server.NewRouter(server.Deps{
		DB:     db,
		Tokens: auth.NewTokenManager("cli-test-key-0123456789abcdef012345", time.Hour, auth.NewMemoryRevocationStore()),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	defer srv.Close()

	dir := t.TempDir()
	session := filepath.Join(dir, "session.json")
	common := []string{"--api", srv.URL, "--session", session}
	cmd := func(args ...string) (string, error) {
		return run(t, append(args, common...)...)
	}

	out, err := cmd("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")

	out, err = cmd("open", "/manage-games")
	require.NoError(t, err)
	assert.Contains(t, out, "redirect to /login")

	_, err = cmd("login", "--email", "root@example.com", "--password", "wrong1")
	assert.EqualError(t, err, "Invalid credentials")

	out, err = cmd("login", "--email", "root@example.com", "--password", "root1")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as root (admin)")

	out, err = cmd("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "root <root@example.com>")

	out, err = cmd("open", "/manage-games")
	require.NoError(t, err)
	assert.Contains(t, out, "allowed")

	image := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(image, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...), 0o600))
	out, err = cmd("games", "add", "--title", "Portal", "--content", "Think with portals", "--age-rating", "12", "--image", image)
	require.NoError(t, err)
	assert.Contains(t, out, "Game uploaded successfully")

	out, err = cmd("games", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Portal")
	assert.Contains(t, out, "12+")
	assert.Contains(t, out, "image/png")

	_, err = cmd("page", "set", "footer", "--content", "Contact us")
	require.NoError(t, err)
	out, err = cmd("page", "get", "footer")
	require.NoError(t, err)
	assert.Equal(t, "Contact us\n", out)

	out, err = cmd("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = cmd("page", "set", "footer", "--content", "x")
	assert.EqualError(t, err, "No token provided")
}
