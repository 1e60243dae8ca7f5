package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkravets/cutout-server/internal/model"
)

// VerificationGateway is a mock implementation of model.VerificationGateway.
type VerificationGateway struct {
	mock.Mock
}

func (m *VerificationGateway) RequestVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *VerificationGateway) PollStatus(ctx context.Context, email string) (model.VerificationStatus, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.VerificationStatus), args.Error(1)
}
