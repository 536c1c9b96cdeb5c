// internal/handlers/upload.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/models"
)

const (
	// MaxImageSize предел размера картинки игры, 1 MiB включительно
	MaxImageSize = 1 << 20
	// запас на остальные поля формы и границы multipart
	formOverhead = 64 << 10

	MaxAgeRating = 18
)

var (
	errFileTooLarge   = apperr.Upload("File too large. Maximum size is 1MB.")
	errInvalidType    = apperr.Upload("Invalid image type. Only JPEG, PNG, and GIF are allowed.")
	errImageRequired  = apperr.Validation("Image file is required")
	errTitleRequired  = apperr.Validation("Title and content are required")
	errInvalidRating  = apperr.Validation(fmt.Sprintf("Age rating must be a number between 0 and %d", MaxAgeRating))
	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}
)

// readGameForm разбирает multipart-форму игры. Ошибки картинки проверяются
// раньше полей, как при загрузке файла до разбора формы.
func readGameForm(c *gin.Context, imageRequired bool) (models.GameInput, error) {
	var in models.GameInput

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+formOverhead)

	image, imageType, err := readImage(c)
	if err != nil {
		return in, err
	}
	if image == nil && imageRequired {
		return in, errImageRequired
	}
	in.Image, in.ImageType = image, imageType

	in.Title = strings.TrimSpace(c.PostForm("title"))
	in.Content = strings.TrimSpace(c.PostForm("content"))
	if in.Title == "" || in.Content == "" {
		return in, errTitleRequired
	}

	if raw := strings.TrimSpace(c.PostForm("ageRating")); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 0 || rating > MaxAgeRating {
			return in, errInvalidRating
		}
		in.AgeRating = &rating
	}

	return in, nil
}

// readImage возвращает nil, если поля image в запросе нет
func readImage(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, "", nil
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", errFileTooLarge
		}
		return nil, "", apperr.Wrap(apperr.KindUpload, "Error uploading file", err)
	}

	if fh.Size > MaxImageSize {
		return nil, "", errFileTooLarge
	}
	data, err := readAll(fh)
	if err != nil {
		return nil, "", err
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return data, allowed, nil
		}
	}
	return nil, "", errInvalidType
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpload, "Error uploading file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpload, "Error uploading file", err)
	}
	if len(data) > MaxImageSize {
		return nil, errFileTooLarge
	}
	return data, nil
}
