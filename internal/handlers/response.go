// internal/handlers/response.go
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/middleware"
)

// respondError пишет {"error": ...}. Всё, что не *apperr.Error, логируется
// и уходит клиенту как общий 500 без текста исходной ошибки.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		c.AbortWithStatusJSON(e.Kind.Status(), gin.H{"error": e.Message})
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", middleware.RequestID(c),
	)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindJSON ShouldBindJSON с переводом ошибок валидатора в понятные сообщения
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation(validationMessage(verrs))
	}
	if errors.Is(err, io.EOF) {
		return apperr.Validation("Request body is required")
	}
	return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}
