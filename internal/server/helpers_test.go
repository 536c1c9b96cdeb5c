package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/database"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
	"game-catalog-backend/internal/testutil"
)

const (
	testKey    = "test-signing-key-0123456789abcdef0123"
	testOrigin = "http://localhost:3000"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	gifMagic  = []byte("GIF89a")
)

type testEnv struct {
	t      *testing.T
	db     *database.DB
	router *gin.Engine
	tokens *auth.TokenManager
	users  *store.UserStore
}

func newEnv(t *testing.T) *testEnv {
	return newEnvWithLimiter(t, middleware.NewIPRateLimiter(1000, 1000))
}

func newEnvWithLimiter(t *testing.T, limiter *middleware.IPRateLimiter) *testEnv {
	t.Helper()
	return newEnvWithProxies(t, limiter, nil)
}

func newEnvWithProxies(t *testing.T, limiter *middleware.IPRateLimiter, trustedProxies []string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	tokens := auth.NewTokenManager(testKey, time.Hour, auth.NewMemoryRevocationStore())
	router, err := NewRouter(Deps{
		DB:           db,
		Tokens:       tokens,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigin:   testOrigin,
		LoginLimiter: limiter,

		TrustedProxies: trustedProxies,
	})
	require.NoError(t, err)

	return &testEnv{
		t:      t,
		db:     db,
		router: router,
		tokens: tokens,
		users:  store.NewUserStore(db),
	}
}

func (e *testEnv) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(method, path, body, "application/json", token)
}

// createUser кладет пользователя прямо в базу
func (e *testEnv) createUser(username, email, password string, role int) *models.User {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	u := &models.User{Username: username, Email: email, Password: hash, Role: role}
	require.NoError(e.t, e.users.Create(e.t.Context(), u))
	return u
}

func (e *testEnv) login(email, password string) string {
	e.t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/user/login", gin.H{"email": email, "password": password}, "")
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.AuthResponse
	decode(e.t, rec, &resp)
	return resp.Token
}

// adminToken и userToken заводят по пользователю и возвращают токены
func (e *testEnv) adminToken() (string, *models.User) {
	u := e.createUser("admin", "admin@example.com", "admin1", models.RoleAdmin)
	return e.login(u.Email, "admin1"), u
}

func (e *testEnv) userToken() (string, *models.User) {
	u := e.createUser("player", "player@example.com", "player1", 0)
	return e.login(u.Email, "player1"), u
}

// loginFrom логинится с адреса remoteAddr, подставляя X-Forwarded-For
func (e *testEnv) loginFrom(remoteAddr, forwardedFor string) int {
	e.t.Helper()
	raw, err := json.Marshal(gin.H{"email": "nobody@example.com", "password": "secret1"})
	require.NoError(e.t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec.Code
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}

// gameForm multipart-тело; image == nil - без файла
func gameForm(t *testing.T, fields map[string]string, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "cover.bin")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// imageOfSize сигнатура формата, добитая нулями до size байт
func imageOfSize(magic []byte, size int) []byte {
	img := make([]byte, size)
	copy(img, magic)
	return img
}

func (e *testEnv) createGame(token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	body, ct := gameForm(e.t, fields, image)
	return e.do(http.MethodPost, "/api/games", body, ct, token)
}
