package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Segmenter is a mock implementation of model.Segmenter.
type Segmenter struct {
	mock.Mock
}

func (m *Segmenter) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
