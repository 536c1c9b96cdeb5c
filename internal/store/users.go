// internal/store/users.go
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

var userColumns = []string{"id", "username", "email", "password", "role"}

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

// Create вставляет пользователя одной командой; дубликат username/email
// приходит от уникального индекса как *DuplicateError
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	id, err := s.db.Insert(ctx, s.db.Builder().
		Insert("users").
		Columns("username", "email", "password", "role").
		Values(u.Username, u.Email, u.Password, u.Role))
	if err != nil {
		return fmt.Errorf("creating user: %w", asDuplicate(err, "username", "email"))
	}
	u.ID = id
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getBy(ctx, sq.Eq{"id": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, sq.Eq{"email": email})
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getBy(ctx, sq.Eq{"username": username})
}

func (s *UserStore) getBy(ctx context.Context, where sq.Eq) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, s.db.Builder().
		Select(userColumns...).
		From("users").
		Where(where)).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// List все пользователи без хешей паролей
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx, s.db.Builder().
		Select("id", "username", "email", "role").
		From("users").
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Exists какие из username/email уже заняты; пустое значение не проверяется
func (s *UserStore) Exists(ctx context.Context, username, email string) (models.ExistsResult, error) {
	var res models.ExistsResult

	or := sq.Or{}
	if username != "" {
		or = append(or, sq.Eq{"username": username})
	}
	if email != "" {
		or = append(or, sq.Eq{"email": email})
	}
	if len(or) == 0 {
		return res, nil
	}

	rows, err := s.db.Query(ctx, s.db.Builder().
		Select("username", "email").
		From("users").
		Where(or))
	if err != nil {
		return res, fmt.Errorf("checking user existence: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u, e string
		if err := rows.Scan(&u, &e); err != nil {
			return res, fmt.Errorf("scanning user: %w", err)
		}
		if username != "" && u == username {
			res.Username = true
		}
		if email != "" && e == email {
			res.Email = true
		}
	}
	return res, rows.Err()
}

type UserUpdate struct {
	Username string
	Email    string
	Password string // хеш; пусто - пароль не меняется
	Role     *int   // nil - роль не меняется
}

// Update меняет пользователя; набор колонок зависит от того, что передано
func (s *UserStore) Update(ctx context.Context, id int64, upd UserUpdate) error {
	q := s.db.Builder().
		Update("users").
		Set("username", upd.Username).
		Set("email", upd.Email).
		Where(sq.Eq{"id": id})
	if upd.Password != "" {
		q = q.Set("password", upd.Password)
	}
	if upd.Role != nil {
		q = q.Set("role", *upd.Role)
	}

	res, err := s.db.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("updating user: %w", asDuplicate(err, "username", "email"))
	}
	return s.checkAffected(ctx, res, id)
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, s.db.Builder().Delete("users").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// checkAffected: MySQL считает "affected" только реально измененные строки,
// поэтому при 0 проверяем, что строка вообще есть
func (s *UserStore) checkAffected(ctx context.Context, res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return nil
}
