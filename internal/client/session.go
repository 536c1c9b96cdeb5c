// internal/client/session.go
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"game-catalog-backend/internal/models"
)

// ErrStaleResponse ответ пришел после того, как сессия уже сменилась
var ErrStaleResponse = errors.New("session changed while request was in flight")

// Snapshot состояние сессии на момент чтения
type Snapshot struct {
	Authenticated bool
	User          *models.User
	Token         string
	IsAdmin       bool
}

// Session текущий пользователь клиента. Источник правды - Storage,
// в памяти держится копия, которая меняется только после успешной записи.
type Session struct {
	storage Storage

	// writeMu держится на всё время "запись + подмена", чтобы storage и память не разошлись
	writeMu sync.Mutex

	mu         sync.RWMutex
	token      string
	user       *models.User
	generation uint64

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

func NewSession(storage Storage) *Session {
	return &Session{
		storage: storage,
		subs:    make(map[int]func(Snapshot)),
	}
}

// Restore поднимает сессию из хранилища. Нечитаемый user очищает хранилище.
func (s *Session) Restore() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	token, hasToken, err := s.storage.Get(KeyToken)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	raw, hasUser, err := s.storage.Get(KeyUser)
	if err != nil {
		return fmt.Errorf("reading user: %w", err)
	}
	if !hasToken || !hasUser || token == "" {
		return nil
	}

	var user *models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		slog.Warn("stored session is corrupt, clearing", "error", err)
		if err := s.clearStorage(); err != nil {
			return err
		}
		s.swap("", nil)
		return nil
	}

	s.swap(token, user)
	return nil
}

func (s *Session) Login(user models.User, token string) error {
	return s.login(user, token, nil)
}

// loginAt как Login, но только если с момента gen сессия не менялась
func (s *Session) loginAt(gen uint64, user models.User, token string) error {
	return s.login(user, token, &gen)
}

func (s *Session) login(user models.User, token string, gen *uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if gen != nil && *gen != s.Generation() {
		return ErrStaleResponse
	}

	user.Password = ""
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	prevToken, hadToken, err := s.storage.Get(KeyToken)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := s.storage.Set(KeyUser, string(raw)); err != nil {
		s.restoreToken(prevToken, hadToken)
		return fmt.Errorf("saving user: %w", err)
	}

	s.swap(token, &user)
	return nil
}

func (s *Session) restoreToken(prev string, had bool) {
	var err error
	if had {
		err = s.storage.Set(KeyToken, prev)
	} else {
		err = s.storage.Remove(KeyToken)
	}
	if err != nil {
		slog.Warn("rolling back session token failed", "error", err)
	}
}

func (s *Session) Logout() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.clearStorage(); err != nil {
		return err
	}
	s.swap("", nil)
	return nil
}

func (s *Session) clearStorage() error {
	if err := s.storage.Remove(KeyToken); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	if err := s.storage.Remove(KeyUser); err != nil {
		return fmt.Errorf("removing user: %w", err)
	}
	return nil
}

// swap подменяет состояние и уведомляет подписчиков; вызывается под writeMu
func (s *Session) swap(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	if s.user == nil || s.token == "" {
		return Snapshot{}
	}
	u := *s.user
	return Snapshot{
		Authenticated: true,
		User:          &u,
		Token:         s.token,
		IsAdmin:       u.IsAdmin(),
	}
}

// Generation растет при каждой смене сессии
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe вызывает fn после каждой смены сессии; возвращает отписку
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}
