package model

import "context"

// VerificationStatus is the state an email address is in at the provider.
type VerificationStatus string

const (
	// VerificationPending means a verification request was made but the
	// address has not been confirmed yet.
	VerificationPending VerificationStatus = "pending"
	// VerificationVerified means the address has been confirmed.
	VerificationVerified VerificationStatus = "verified"
	// VerificationFailed means the provider gave up on the address.
	VerificationFailed VerificationStatus = "failed"
)

// VerificationGateway is the external email-verification provider.
type VerificationGateway interface {
	RequestVerification(ctx context.Context, email string) error
	PollStatus(ctx context.Context, email string) (VerificationStatus, error)
}
