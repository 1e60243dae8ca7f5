package model

import "errors"

// Sentinel errors shared across layers. Callers match with errors.Is.
var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Registration errors.
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrVerificationRequest = errors.New("verification request failed")
	ErrPersistence         = errors.New("persistence failed")

	// Login errors.
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountLocked      = errors.New("account locked")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Pipeline errors.
	ErrQuotaExceeded      = errors.New("upload quota exceeded")
	ErrEmptyUpload        = errors.New("empty upload")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrSegmentationFailed = errors.New("segmentation failed")
	ErrStorageUpload      = errors.New("storage upload failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingInput       = errors.New("missing input")
	ErrForegroundNotFound = errors.New("foreground not found")
	ErrBackgroundFetch    = errors.New("background fetch failed")
	ErrInvalidFormat      = errors.New("invalid file format")
)
