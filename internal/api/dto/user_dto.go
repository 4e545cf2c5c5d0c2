package dto

import (
	"time"

	"github.com/spec-kit/civicdesk/internal/domain"
)

// RegisterRequest payload for new accounts. Accepts JSON or form encoding.
type RegisterRequest struct {
	FullName        string `json:"full_name" form:"full_name"`
	Email           string `json:"email" form:"email"`
	Role            string `json:"role" form:"role"`
	Department      string `json:"department" form:"department"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string      `json:"id"`
	FullName   string      `json:"full_name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuthResponse standard response for token-issuing endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserOf maps a domain user to its response shape.
func UserOf(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
	}
}
