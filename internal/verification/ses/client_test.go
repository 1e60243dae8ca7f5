package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/cutout-server/internal/model"
)

// fakeSES implements sesAPI for testing without real AWS calls.
type fakeSES struct {
	createErr error
	createdID string

	getOut *sesv2.GetEmailIdentityOutput
	getErr error
}

func (f *fakeSES) CreateEmailIdentity(_ context.Context, params *sesv2.CreateEmailIdentityInput, _ ...func(*sesv2.Options)) (*sesv2.CreateEmailIdentityOutput, error) {
	if params.EmailIdentity != nil {
		f.createdID = *params.EmailIdentity
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &sesv2.CreateEmailIdentityOutput{}, nil
}

func (f *fakeSES) GetEmailIdentity(_ context.Context, _ *sesv2.GetEmailIdentityInput, _ ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error) {
	return f.getOut, f.getErr
}

func TestClient_RequestVerification(t *testing.T) {
	api := &fakeSES{}
	c := NewClientWithAPI(api)

	require.NoError(t, c.RequestVerification(context.Background(), "alice@example.com"))
	assert.Equal(t, "alice@example.com", api.createdID)
}

func TestClient_RequestVerification_AlreadyExists(t *testing.T) {
	api := &fakeSES{createErr: &types.AlreadyExistsException{}}
	c := NewClientWithAPI(api)

	// Re-requesting the same address is treated as success.
	require.NoError(t, c.RequestVerification(context.Background(), "alice@example.com"))
}

func TestClient_RequestVerification_Error(t *testing.T) {
	api := &fakeSES{createErr: errors.New("throttled")}
	c := NewClientWithAPI(api)

	err := c.RequestVerification(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create email identity")
}

func TestClient_PollStatus(t *testing.T) {
	for name, tt := range map[string]struct {
		out  *sesv2.GetEmailIdentityOutput
		want model.VerificationStatus
	}{
		"verified for sending": {
			out:  &sesv2.GetEmailIdentityOutput{VerifiedForSendingStatus: true},
			want: model.VerificationVerified,
		},
		"verification success": {
			out:  &sesv2.GetEmailIdentityOutput{VerificationStatus: types.VerificationStatusSuccess},
			want: model.VerificationVerified,
		},
		"verification failed": {
			out:  &sesv2.GetEmailIdentityOutput{VerificationStatus: types.VerificationStatusFailed},
			want: model.VerificationFailed,
		},
		"still pending": {
			out:  &sesv2.GetEmailIdentityOutput{VerificationStatus: types.VerificationStatusPending},
			want: model.VerificationPending,
		},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewClientWithAPI(&fakeSES{getOut: tt.out})

			status, err := c.PollStatus(context.Background(), "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestClient_PollStatus_UnknownIdentity(t *testing.T) {
	c := NewClientWithAPI(&fakeSES{getErr: &types.NotFoundException{}})

	status, err := c.PollStatus(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, status)
}

func TestClient_PollStatus_Error(t *testing.T) {
	c := NewClientWithAPI(&fakeSES{getErr: errors.New("access denied")})

	_, err := c.PollStatus(context.Background(), "alice@example.com")
	require.Error(t, err)
}
