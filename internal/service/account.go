package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/mkravets/cutout-server/internal/logger"
	"github.com/mkravets/cutout-server/internal/model"
)

// maxLoginAttempts is the failed-login ceiling after which an account locks.
const maxLoginAttempts = 3

var emailRegexp = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Account owns registration, login with attempt lockout, and verification
// reconciliation.
type Account struct {
	users   model.UserStore
	gateway model.VerificationGateway
	logger  *logger.Logger
}

func NewAccount(
	users model.UserStore,
	gateway model.VerificationGateway,
	logger *logger.Logger,
) *Account {
	return &Account{
		users:   users,
		gateway: gateway,
		logger:  logger,
	}
}

// HashPassword returns the irreversible digest stored and compared in place
// of the plaintext password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register validates the email, checks for an existing credential with the
// same (username, password digest) pair, requests email verification and
// persists a new unverified user with zero attempts.
func (a *Account) Register(ctx context.Context, username, password, email string) error {
	a.logger.Debug("Account service: starting registration", "username", username)

	if !emailRegexp.MatchString(email) {
		return model.ErrInvalidEmail
	}

	hash := HashPassword(password)

	// Duplicate detection is on the (username, hash) pair, matching the
	// stored uniqueness constraint.
	existing, err := a.users.GetByUsernameAndHash(ctx, username, hash)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Account service: failed to check existing user",
			"username", username,
			"error", err.Error())
		return model.ErrStoreUnavailable
	}
	if err == nil && existing.ID != 0 {
		a.logger.Info("Account service: username already exists", "username", username)
		return model.ErrUsernameTaken
	}

	if err := a.gateway.RequestVerification(ctx, email); err != nil {
		a.logger.Error("Account service: verification request failed",
			"username", username,
			"error", err.Error())
		return model.ErrVerificationRequest
	}

	user := model.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}

	if _, err := a.users.Create(ctx, user); err != nil {
		// The verification mail was already sent and is not undone.
		a.logger.Error("Account service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.ErrPersistence
	}

	a.logger.Info("Account service: registration completed", "username", username)

	return nil
}

// Login authenticates by (username, password digest) pair. Unverified users
// get one reconciliation poll; wrong credentials increment the attempt
// counter up to the lockout ceiling.
func (a *Account) Login(ctx context.Context, username, password string) (model.User, error) {
	a.logger.Debug("Account service: starting login", "username", username)

	user, err := a.users.GetByUsernameAndHash(ctx, username, HashPassword(password))
	if err == nil {
		if !user.Verified {
			if !a.ReconcileVerification(ctx, user.Email) {
				return model.User{}, model.ErrEmailNotVerified
			}
			user.Verified = true
		}

		// The attempt counter is deliberately not reset on success.
		a.logger.Info("Account service: login successful", "username", username, "user_id", user.ID)
		return user, nil
	}

	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Account service: failed to look up user",
			"username", username,
			"error", err.Error())
		return model.User{}, model.ErrStoreUnavailable
	}

	return model.User{}, a.recordFailedAttempt(ctx, username)
}

// recordFailedAttempt applies the lockout bookkeeping for a wrong-credentials
// login and returns the error surfaced to the caller.
func (a *Account) recordFailedAttempt(ctx context.Context, username string) error {
	attempts, err := a.users.GetAttempts(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		// Unknown username: nothing to track.
		return model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Account service: failed to get login attempts",
			"username", username,
			"error", err.Error())
		return model.ErrStoreUnavailable
	}

	if attempts >= maxLoginAttempts {
		a.logger.Info("Account service: account locked", "username", username, "attempts", attempts)
		return model.ErrAccountLocked
	}

	if err := a.users.SetAttempts(ctx, username, attempts+1); err != nil {
		// The login still fails with invalid credentials; the bookkeeping
		// failure is only logged.
		a.logger.Error("Account service: failed to update login attempts",
			"username", username,
			"error", err.Error())
	}

	return model.ErrInvalidCredentials
}

// ReconcileVerification polls the gateway and, if the address is verified,
// flips the stored flag. Idempotent: re-invoking after the flag is set
// performs a redundant update with no adverse effect.
func (a *Account) ReconcileVerification(ctx context.Context, email string) bool {
	status, err := a.gateway.PollStatus(ctx, email)
	if err != nil {
		a.logger.Error("Account service: failed to poll verification status",
			"email", email,
			"error", err.Error())
		return false
	}
	if status != model.VerificationVerified {
		a.logger.Info("Account service: email not verified", "email", email, "status", string(status))
		return false
	}

	if _, err := a.users.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Account service: failed to get user by email",
				"email", email,
				"error", err.Error())
		}
		return false
	}

	if err := a.users.SetVerified(ctx, email); err != nil {
		a.logger.Error("Account service: failed to set verified",
			"email", email,
			"error", err.Error())
		return false
	}

	a.logger.Info("Account service: email verified", "email", email)

	return true
}
