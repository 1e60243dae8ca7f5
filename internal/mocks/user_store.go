// Package mocks provides testify mock implementations of the model
// interfaces for unit tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkravets/cutout-server/internal/model"
)

// UserStore is a mock implementation of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByUsernameAndHash(ctx context.Context, username, passwordHash string) (model.User, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetAttempts(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

func (m *UserStore) SetAttempts(ctx context.Context, username string, attempts int) error {
	args := m.Called(ctx, username, attempts)
	return args.Error(0)
}

func (m *UserStore) SetVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}
