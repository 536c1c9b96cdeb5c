// internal/handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
)

var errInvalidCredentials = apperr.Unauthenticated("Invalid credentials")

// dummyHash сравнивается с паролем, когда пользователь не найден,
// чтобы время ответа не выдавало существование email
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("not-a-real-password1")
	return h
})

type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.TokenManager
}

func NewAuthHandler(users *store.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.createUser(c.Request.Context(), req.Username, req.Email, req.Password, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// CreateUser регистрация администратором с явной ролью
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.createUser(c.Request.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(c.Request.Context(), "user created by admin",
		"user_id", user.ID, "role", user.Role, "request_id", middleware.RequestID(c))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

func (h *AuthHandler) createUser(ctx context.Context, username, email, password string, role int) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, conflictError(err)
	}
	return user, nil
}

// conflictError превращает *store.DuplicateError в 409 с именем поля
func conflictError(err error) error {
	var dup *store.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}
	switch dup.Field {
	case "username":
		return apperr.Wrap(apperr.KindConflict, "Username already exists", err)
	case "email":
		return apperr.Wrap(apperr.KindConflict, "Email already exists", err)
	default:
		return apperr.Wrap(apperr.KindConflict, "User already exists", err)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authenticate(c.Request.Context(), func(ctx context.Context) (*models.User, error) {
		return h.users.GetByEmail(ctx, req.Email)
	}, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LoginByUsername устаревший вход по username; отвечает тем же, что и Login
func (h *AuthHandler) LoginByUsername(c *gin.Context) {
	c.Header("Deprecation", "true")
	c.Header("Link", `</api/user/login>; rel="successor-version"`)
	slog.WarnContext(c.Request.Context(), "deprecated login route used",
		"path", c.FullPath(), "client_ip", c.ClientIP())

	var req models.UsernameLoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authenticate(c.Request.Context(), func(ctx context.Context) (*models.User, error) {
		return h.users.GetByUsername(ctx, req.Username)
	}, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) authenticate(ctx context.Context, lookup func(context.Context) (*models.User, error), password string) (*models.AuthResponse, error) {
	user, err := lookup(ctx)
	if errors.Is(err, store.ErrNotFound) {
		_, _ = auth.CheckPassword(password, dummyHash())
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidCredentials
	}

	token, err := h.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    *user,
	}, nil
}

func (h *AuthHandler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if req.Username == "" && req.Email == "" {
		respondError(c, apperr.Validation("Either username or email must be provided"))
		return
	}

	exists, err := h.users.Exists(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Username and email are available"
	if exists.Username || exists.Email {
		msg = "User already exists"
	}
	c.JSON(http.StatusOK, models.CheckResponse{Exists: exists, Message: msg})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperr.Unauthenticated("No token provided"))
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperr.Unauthenticated("No token provided"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
