package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mkravets/cutout-server/internal/model"
)

// Internal adapter interface to enable mocking without real SES calls.
type sesAPI interface {
	CreateEmailIdentity(ctx context.Context, params *sesv2.CreateEmailIdentityInput, optFns ...func(*sesv2.Options)) (*sesv2.CreateEmailIdentityOutput, error)
	GetEmailIdentity(ctx context.Context, params *sesv2.GetEmailIdentityInput, optFns ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error)
}

var _ model.VerificationGateway = (*Client)(nil)

// Client implements the verification gateway over AWS SES email identities.
// Creating an identity sends the verification mail; polling reads the
// identity's verification state.
type Client struct {
	api sesAPI
}

// NewClient creates a new SES verification client.
func NewClient(api *sesv2.Client) *Client {
	return NewClientWithAPI(api)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(api sesAPI) *Client {
	return &Client{api: api}
}

// RequestVerification asks SES to send a verification mail to the address.
// Re-requesting an address that is already registered is not an error.
func (c *Client) RequestVerification(ctx context.Context, email string) error {
	_, err := c.api.CreateEmailIdentity(ctx, &sesv2.CreateEmailIdentityInput{
		EmailIdentity: aws.String(email),
	})
	if err != nil {
		var exists *types.AlreadyExistsException
		if errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to create email identity: %w", err)
	}
	return nil
}

// PollStatus reports the current verification state of the address.
func (c *Client) PollStatus(ctx context.Context, email string) (model.VerificationStatus, error) {
	out, err := c.api.GetEmailIdentity(ctx, &sesv2.GetEmailIdentityInput{
		EmailIdentity: aws.String(email),
	})
	if err != nil {
		var notFound *types.NotFoundException
		if errors.As(err, &notFound) {
			return model.VerificationPending, nil
		}
		return "", fmt.Errorf("failed to get email identity: %w", err)
	}

	if out.VerifiedForSendingStatus {
		return model.VerificationVerified, nil
	}

	switch out.VerificationStatus {
	case types.VerificationStatusSuccess:
		return model.VerificationVerified, nil
	case types.VerificationStatusFailed:
		return model.VerificationFailed, nil
	default:
		return model.VerificationPending, nil
	}
}
