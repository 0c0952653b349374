package auth

import "errors"

var (
	// ErrNotFound indicates the user doesn't exist.
	ErrNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates a registration with an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	// The two cases are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWrongPassword is returned when the current password does not match on change.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrInvalidToken indicates a missing, malformed, or expired session token.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrRateLimited indicates too many login attempts.
	ErrRateLimited = errors.New("too many login attempts")

	// ErrInvalidInput indicates a missing required field.
	ErrInvalidInput = errors.New("invalid input")
)
