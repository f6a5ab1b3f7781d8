// internal/domain/models/user.go
package models

import (
	"strings"
	"time"
)

// Site roles. Admins hold every capability site wide.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleTrainer = "trainer"
	RoleUser    = "user"
)

// User status values.
const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// User is a site account: trainers, managers and learners alike.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"` // login id
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is the display name used in tables and notices.
func (u User) FullName() string {
	return joinName(u.FirstName, u.LastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
