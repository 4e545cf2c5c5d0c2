package domain

import "time"

// User is the domain model for every account, end-users and staff alike.
// Role decides capabilities; Department is set only for department admins.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the request-scoped view of an authenticated caller, bound to a
// session at login and carried by parameter into every protected operation.
type Identity struct {
	UserID     string  `json:"user_id"`
	Role       Role    `json:"role"`
	Department *string `json:"department,omitempty"`
}

// IdentityOf derives the session identity from a user record.
func IdentityOf(user *User) Identity {
	return Identity{
		UserID:     user.ID,
		Role:       user.Role,
		Department: user.Department,
	}
}
