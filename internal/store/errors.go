// Package store SQL-доступ к пользователям, играм и контенту страниц.
package store

import (
	"errors"
	"fmt"
	"strings"

	"game-catalog-backend/internal/database"
)

var ErrNotFound = errors.New("not found")

// DuplicateError нарушение уникальности; Field - какое поле совпало ("" если не удалось понять)
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "duplicate entry"
	}
	return fmt.Sprintf("duplicate %s", e.Field)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// asDuplicate переводит ошибку драйвера в *DuplicateError, поле ищется среди fields
func asDuplicate(err error, fields ...string) error {
	key, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	key = strings.ToLower(key)
	for _, f := range fields {
		if strings.HasSuffix(key, "_"+f) || strings.HasSuffix(key, "."+f) {
			return &DuplicateError{Field: f, Err: err}
		}
	}
	return &DuplicateError{Err: err}
}
