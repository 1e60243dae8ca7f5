package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByUsernameAndHash(ctx context.Context, username, passwordHash string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetAttempts(ctx context.Context, username string) (int, error)
	SetAttempts(ctx context.Context, username string, attempts int) error
	SetVerified(ctx context.Context, email string) error
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored user with authentication material.
// PasswordHash is an irreversible digest; plaintext never persists.
type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	Email         string
	Verified      bool
	LoginAttempts int
	CreatedAt     time.Time
}
