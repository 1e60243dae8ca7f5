package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkravets/cutout-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByUsernameAndHash(ctx context.Context, username, passwordHash string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, password, email, verified, login_attempts, created_at
			  FROM users WHERE username = $1 AND password = $2`

	err := r.db.QueryRowContext(ctx, query, username, passwordHash).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Verified,
		&user.LoginAttempts, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username and hash: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, password, email, verified, login_attempts, created_at
			  FROM users WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Verified,
		&user.LoginAttempts, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetAttempts(ctx context.Context, username string) (int, error) {
	var attempts int
	query := `SELECT login_attempts FROM users WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("failed to get login attempts: %w", err)
	}

	return attempts, nil
}

func (r *UserRepository) SetAttempts(ctx context.Context, username string, attempts int) error {
	query := `UPDATE users SET login_attempts = $1 WHERE username = $2`

	if _, err := r.db.ExecContext(ctx, query, attempts, username); err != nil {
		return fmt.Errorf("failed to set login attempts: %w", err)
	}

	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, email string) error {
	query := `UPDATE users SET verified = TRUE WHERE email = $1`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("failed to set verified: %w", err)
	}

	return nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (username, password, email, verified, login_attempts)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, username, password, email, verified, login_attempts, created_at`

	var savedUser model.User
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Verified, user.LoginAttempts,
	).Scan(
		&savedUser.ID, &savedUser.Username, &savedUser.PasswordHash, &savedUser.Email,
		&savedUser.Verified, &savedUser.LoginAttempts, &savedUser.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}
