package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/cutout-server/internal/model"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Connection{DB: db}, mock
}

func userColumns() []string {
	return []string{"id", "username", "password", "email", "verified", "login_attempts", "created_at"}
}

func TestUserRepository_GetByUsernameAndHash(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, password, email, verified, login_attempts, created_at\s+FROM users WHERE username = \$1 AND password = \$2`).
		WithArgs("alice", "digest").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "alice", "digest", "alice@example.com", true, 0, now))

	user, err := repo.GetByUsernameAndHash(context.Background(), "alice", "digest")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Verified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsernameAndHash_NotFound(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1 AND password = \$2`).
		WithArgs("alice", "wrong").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByUsernameAndHash(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsernameAndHash_QueryError(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1 AND password = \$2`).
		WithArgs("alice", "digest").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByUsernameAndHash(context.Background(), "alice", "digest")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "alice", "digest", "alice@example.com", false, 2, time.Now()))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, 2, user.LoginAttempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_GetAttempts(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT login_attempts FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"login_attempts"}).AddRow(2))

	attempts, err := repo.GetAttempts(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestUserRepository_GetAttempts_NotFound(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT login_attempts FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"login_attempts"}))

	_, err := repo.GetAttempts(context.Background(), "ghost")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_SetAttempts(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectExec(`UPDATE users SET login_attempts = \$1 WHERE username = \$2`).
		WithArgs(3, "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAttempts(context.Background(), "alice", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetVerified(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectExec(`UPDATE users SET verified = TRUE WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetVerified(context.Background(), "alice@example.com"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users \(username, password, email, verified, login_attempts\)`).
		WithArgs("alice", "digest", "alice@example.com", false, 0).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(5), "alice", "digest", "alice@example.com", false, 0, now))

	user, err := repo.Create(context.Background(), model.User{
		Username:     "alice",
		PasswordHash: "digest",
		Email:        "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.WithinDuration(t, now, user.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicatePair(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "digest", "alice@example.com", false, 0).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	_, err := repo.Create(context.Background(), model.User{
		Username:     "alice",
		PasswordHash: "digest",
		Email:        "alice@example.com",
	})
	require.Error(t, err)
}
