// internal/models/page_content.go
package models

type PageContent struct {
	ID      int64  `json:"id"`
	Section string `json:"section"`
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

type UpdatePageContentRequest struct {
	Content *string `json:"content"`
}
