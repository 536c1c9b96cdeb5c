// internal/models/user.go
package models

// RoleAdmin значение role у администратора, всё остальное - обычный пользователь
const RoleAdmin = 1

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt-хеш, наружу не отдаётся
	Role     int    `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,loose_email"`
	Password string `json:"password" binding:"required,password"`
}

// CreateUserRequest регистрация администратором, с явной ролью
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,loose_email"`
	Password string `json:"password" binding:"required,password"`
	Role     int    `json:"role" binding:"oneof=0 1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UsernameLoginRequest тело устаревшего /api/auth/login
type UsernameLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CheckRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdateUserRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,loose_email"`
	Password string `json:"password" binding:"omitempty,password"`
	Role     *int   `json:"role" binding:"omitempty,oneof=0 1"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type ExistsResult struct {
	Username bool `json:"username"`
	Email    bool `json:"email"`
}

type CheckResponse struct {
	Exists  ExistsResult `json:"exists"`
	Message string       `json:"message"`
}
