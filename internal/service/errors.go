package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied is returned when a user lacks permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned on duplicates
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when the user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user lookup fails
	ErrUserNotFound = errors.New("user not found")

	// ErrGenerationUnavailable is returned when no generation client is
	// configured and an operation needs one
	ErrGenerationUnavailable = errors.New("generation service not configured")

	// ErrNoContent is returned when a proposal has no publishable content
	ErrNoContent = errors.New("no tender content available to publish")

	// ErrAlreadyPublished is returned when a tender already exists for the
	// proposal
	ErrAlreadyPublished = errors.New("tender already published for this proposal")

	// ErrNoOrganizationNIF is returned when publishing without an
	// organization NIF
	ErrNoOrganizationNIF = errors.New("organization NIF is required to publish tender")

	// ErrUnsupportedFileType is returned for attachment uploads the
	// extractor cannot handle
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
