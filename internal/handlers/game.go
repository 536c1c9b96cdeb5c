// internal/handlers/game.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
)

var errGameNotFound = apperr.NotFound("Game not found")

type GameHandler struct {
	games *store.GameStore
}

func NewGameHandler(games *store.GameStore) *GameHandler {
	return &GameHandler{games: games}
}

func (h *GameHandler) List(c *gin.Context) {
	games, err := h.games.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	game, err := h.games.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errGameNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// Image отдает картинку с тем типом, который определили при загрузке
func (h *GameHandler) Image(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, mimeType, err := h.games.Image(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errGameNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) == 0 {
		respondError(c, apperr.NotFound("Image not found"))
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, mimeType, data)
}

func (h *GameHandler) Create(c *gin.Context) {
	in, err := readGameForm(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.games.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(c.Request.Context(), "game created",
		"game_id", id, "image_type", in.ImageType, "image_bytes", len(in.Image),
		"request_id", middleware.RequestID(c))
	c.JSON(http.StatusCreated, models.CreateGameResponse{
		Message: "Game uploaded successfully",
		GameID:  id,
		Title:   in.Title,
	})
}

func (h *GameHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	in, err := readGameForm(c, false)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.games.Update(c.Request.Context(), id, in)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errGameNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game updated successfully"})
}

func (h *GameHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.games.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, errGameNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}
