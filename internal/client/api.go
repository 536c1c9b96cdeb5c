// internal/client/api.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"game-catalog-backend/internal/models"
)

var ErrLoginInProgress = errors.New("login already in progress")

// APIError ответ сервера со статусом >= 400
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// StatusOf HTTP статус из *APIError, 0 для остальных ошибок
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session

	loginMu   sync.Mutex
	loggingIn bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

// Login входит по email. Параллельный второй вход отклоняется, а ответ,
// пришедший после смены сессии (logout во время запроса), отбрасывается.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	c.loginMu.Lock()
	if c.loggingIn {
		c.loginMu.Unlock()
		return nil, ErrLoginInProgress
	}
	c.loggingIn = true
	c.loginMu.Unlock()
	defer func() {
		c.loginMu.Lock()
		c.loggingIn = false
		c.loginMu.Unlock()
	}()

	gen := c.session.Generation()

	var resp models.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/user/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, fallbackMessage(err, "An error occurred during login")
	}
	if resp.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "Login response has no token"}
	}

	if err := c.session.loginAt(gen, resp.User, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (int64, error) {
	var resp struct {
		UserID int64 `json:"userId"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/user/", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return 0, fallbackMessage(err, "An error occurred during registration")
	}
	return resp.UserID, nil
}

// Logout отзывает токен на сервере и всегда очищает локальную сессию
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.session.Token() != "" {
		remoteErr = c.doJSON(ctx, http.MethodPost, "/api/user/logout", nil, nil)
	}
	if err := c.session.Logout(); err != nil {
		return err
	}
	// просроченный токен уже недействителен
	if StatusOf(remoteErr) == http.StatusUnauthorized {
		return nil
	}
	return remoteErr
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Games(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := c.doJSON(ctx, http.MethodGet, "/api/games", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) Game(ctx context.Context, id int64) (*models.Game, error) {
	var g models.Game
	if err := c.doJSON(ctx, http.MethodGet, "/api/games/"+strconv.FormatInt(id, 10), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGame загружает игру multipart-формой; image - содержимое файла картинки
func (c *Client) CreateGame(ctx context.Context, in models.GameInput, filename string) (*models.CreateGameResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}
	if in.AgeRating != nil {
		fields["ageRating"] = strconv.Itoa(*in.AgeRating)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if in.Image != nil {
		fw, err := w.CreateFormFile("image", filename)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(in.Image); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp models.CreateGameResponse
	if err := c.do(ctx, http.MethodPost, "/api/games", &buf, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/games/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) PageContent(ctx context.Context, section string) (string, error) {
	var page models.PageContent
	if err := c.doJSON(ctx, http.MethodGet, "/api/page-content/"+url.PathEscape(section), nil, &page); err != nil {
		return "", err
	}
	return page.Content, nil
}

func (c *Client) SetPageContent(ctx context.Context, section, content string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/page-content/"+url.PathEscape(section),
		models.UpdatePageContentRequest{Content: &content}, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage текст ошибки из тела: поле error, затем message, иначе общий текст
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

// fallbackMessage для сетевых ошибок без ответа сервера подставляет понятный текст
func fallbackMessage(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
