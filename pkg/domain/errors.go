package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("A user with that email already exists!")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnconfirmedAccount = errors.New("account has not confirmed email")
	ErrUnknownSubject     = errors.New("could not find user for this token")
)

// Token errors. Each one is reported to the client as-is so callers can tell
// an expired token from a forged one.
var (
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenMalformed       = errors.New("invalid token")
	ErrTokenMissingSubject  = errors.New("token is missing 'sub' field")
	ErrTokenPurposeMismatch = errors.New("token has incorrect type")
)

// Content errors
var (
	ErrPostNotFound = errors.New("Post not found")
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
	ErrEmptyBody    = errors.New("body must not be empty")
)
