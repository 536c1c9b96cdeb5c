// internal/store/games.go
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

type GameStore struct {
	db *database.DB
}

func NewGameStore(db *database.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) selectGames() sq.SelectBuilder {
	return s.db.Builder().
		Select("id", "title", "content", "image", "image_type", "age_rating").
		From("games")
}

func scanGame(row interface{ Scan(...any) error }) (models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.Title, &g.Content, &g.Image, &g.ImageType, &g.AgeRating)
	return g, err
}

func (s *GameStore) List(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.Query(ctx, s.selectGames().OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *GameStore) Get(ctx context.Context, id int64) (*models.Game, error) {
	g, err := scanGame(s.db.QueryRow(ctx, s.selectGames().Where(sq.Eq{"id": id})))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return &g, nil
}

func (s *GameStore) Create(ctx context.Context, in models.GameInput) (int64, error) {
	rating := 0
	if in.AgeRating != nil {
		rating = *in.AgeRating
	}
	id, err := s.db.Insert(ctx, s.db.Builder().
		Insert("games").
		Columns("title", "content", "image", "image_type", "age_rating").
		Values(in.Title, in.Content, in.Image, in.ImageType, rating))
	if err != nil {
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

// Update: без новой картинки колонки image/image_type в запрос не попадают,
// сохраненное изображение остается как есть. Так же с age_rating.
func (s *GameStore) Update(ctx context.Context, id int64, in models.GameInput) error {
	q := s.db.Builder().
		Update("games").
		Set("title", in.Title).
		Set("content", in.Content).
		Where(sq.Eq{"id": id})
	if in.AgeRating != nil {
		q = q.Set("age_rating", *in.AgeRating)
	}
	if in.Image != nil {
		q = q.Set("image", in.Image).Set("image_type", in.ImageType)
	}

	res, err := s.db.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("updating game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating game: %w", err)
	}
	if n == 0 {
		// MySQL не считает строку затронутой, если значения не изменились
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *GameStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, s.db.Builder().Delete("games").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Image сырые байты картинки и ее MIME-тип
func (s *GameStore) Image(ctx context.Context, id int64) ([]byte, string, error) {
	var (
		data     []byte
		mimeType string
	)
	err := s.db.QueryRow(ctx, s.db.Builder().
		Select("image", "image_type").
		From("games").
		Where(sq.Eq{"id": id})).
		Scan(&data, &mimeType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting game image: %w", err)
	}
	return data, mimeType, nil
}
