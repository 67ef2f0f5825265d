package domain

import (
	"strings"
	"time"
)

// User is the acting account behind a review. Authentication happens upstream;
// only the flags needed for authorisation decisions live here.
type User struct {
	ID            string    `json:"id" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Name          string    `json:"name,omitempty" validate:"max=100"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUser validates u.
func NewUser(u User) (*User, error) {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if err := validateStruct("user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
