package model

import "errors"

var (
	// ErrInvalidInput is returned when required request fields are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for any login mismatch, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a protected operation runs without identity.
	ErrUnauthenticated = errors.New("unauthorized")
	// ErrSessionNotFound is returned when a session does not exist or belongs to someone else.
	ErrSessionNotFound = errors.New("session not found")
	// ErrArchiveNotFound is returned when no archive was exported for a session.
	ErrArchiveNotFound = errors.New("archive not found")
	// ErrArchiveDisabled is returned when report archiving has no storage configured.
	ErrArchiveDisabled = errors.New("report archive is disabled")
)
