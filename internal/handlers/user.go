// internal/handlers/user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
)

var errUserNotFound = apperr.NotFound("User not found")

type UserHandler struct {
	users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errUserNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update: свою запись может менять любой, чужую и роль - только администратор
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperr.Unauthenticated("No token provided"))
		return
	}
	isAdmin := claims.Role == models.RoleAdmin
	if claims.UserID != id && !isAdmin {
		respondError(c, apperr.Forbidden("You can only update your own account"))
		return
	}

	var req models.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if req.Role != nil && !isAdmin {
		respondError(c, apperr.Forbidden("Only admins can change roles"))
		return
	}

	upd := store.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}
	if req.Password != "" {
		if upd.Password, err = auth.HashPassword(req.Password); err != nil {
			respondError(c, err)
			return
		}
	}

	err = h.users.Update(c.Request.Context(), id, upd)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errUserNotFound)
		return
	}
	if err != nil {
		respondError(c, conflictError(err))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if claims, ok := middleware.CurrentClaims(c); ok && claims.UserID == id {
		respondError(c, apperr.Validation("You cannot delete your own account"))
		return
	}

	err = h.users.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errUserNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
