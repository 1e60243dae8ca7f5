package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkravets/cutout-server/internal/model"
)

// BackgroundStore is a mock implementation of model.BackgroundStore.
type BackgroundStore struct {
	mock.Mock
}

func (m *BackgroundStore) Create(ctx context.Context, asset model.BackgroundAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *BackgroundStore) ListByUser(ctx context.Context, userID int64) ([]model.BackgroundAsset, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BackgroundAsset), args.Error(1)
}
