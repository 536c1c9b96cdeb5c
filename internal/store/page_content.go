// internal/store/page_content.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"game-catalog-backend/internal/database"
	"game-catalog-backend/internal/models"
)

type PageContentStore struct {
	db *database.DB
}

func NewPageContentStore(db *database.DB) *PageContentStore {
	return &PageContentStore{db: db}
}

// GetActive активная запись секции или ErrNotFound
func (s *PageContentStore) GetActive(ctx context.Context, section string) (*models.PageContent, error) {
	return s.get(ctx, sq.Eq{"section": section, "active": true})
}

func (s *PageContentStore) Get(ctx context.Context, section string) (*models.PageContent, error) {
	return s.get(ctx, sq.Eq{"section": section})
}

func (s *PageContentStore) get(ctx context.Context, where sq.Eq) (*models.PageContent, error) {
	var p models.PageContent
	err := s.db.QueryRow(ctx, s.db.Builder().
		Select("id", "section", "content", "active").
		From("page_content").
		Where(where)).
		Scan(&p.ID, &p.Section, &p.Content, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting page content: %w", err)
	}
	return &p, nil
}

// Upsert создает секцию при первой записи, дальше обновляет content той же строки.
// Одна команда INSERT ... ON CONFLICT/ON DUPLICATE KEY, последняя запись побеждает.
func (s *PageContentStore) Upsert(ctx context.Context, section, content string) (*models.PageContent, error) {
	q := s.db.Builder().
		Insert("page_content").
		Columns("section", "content", "active").
		Values(section, content, true).
		Suffix(s.db.Dialect.UpsertSuffix("section", "content"))

	if _, err := s.db.Exec(ctx, q); err != nil {
		return nil, fmt.Errorf("upserting page content: %w", err)
	}
	return s.Get(ctx, section)
}
