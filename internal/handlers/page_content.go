// internal/handlers/page_content.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/models"
	"game-catalog-backend/internal/store"
)

var errInvalidSection = apperr.Validation("Invalid section name")

type PageContentHandler struct {
	pages  *store.PageContentStore
	policy *bluemonday.Policy
}

// NewPageContentHandler: контент секций - HTML от администратора, чистится UGC-политикой
func NewPageContentHandler(pages *store.PageContentStore) *PageContentHandler {
	return &PageContentHandler{
		pages:  pages,
		policy: bluemonday.UGCPolicy(),
	}
}

func (h *PageContentHandler) Get(c *gin.Context) {
	section := c.Param("section")
	if !validSection(section) {
		respondError(c, errInvalidSection)
		return
	}

	page, err := h.pages.GetActive(c.Request.Context(), section)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"content": ""})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *PageContentHandler) Update(c *gin.Context) {
	section := c.Param("section")
	if !validSection(section) {
		respondError(c, errInvalidSection)
		return
	}

	var req models.UpdatePageContentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if req.Content == nil {
		respondError(c, apperr.Validation("Content is required"))
		return
	}

	page, err := h.pages.Upsert(c.Request.Context(), section, h.policy.Sanitize(*req.Content))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Content updated successfully",
		"pageContent": page,
	})
}
