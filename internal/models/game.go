// internal/models/game.go
package models

type Game struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Image     []byte `json:"image"` // encoding/json отдаёт []byte как base64, nil как null
	ImageType string `json:"imageType"`
	AgeRating int    `json:"ageRating"`
}

// GameInput поля формы создания/обновления игры.
// Image == nil или AgeRating == nil - при обновлении поле не трогаем.
type GameInput struct {
	Title     string
	Content   string
	AgeRating *int
	Image     []byte
	ImageType string
}

func Rating(n int) *int { return &n }

type CreateGameResponse struct {
	Message string `json:"message"`
	GameID  int64  `json:"gameId"`
	Title   string `json:"title"`
}
