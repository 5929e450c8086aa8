package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidProfile     = errors.New("invalid profile")

	// ErrHashingFailure means the password could not be turned into a hash.
	// The record must not be persisted.
	ErrHashingFailure = errors.New("password hashing failed")

	// ErrInvalidCredentialState means a stored hash is missing or malformed.
	ErrInvalidCredentialState = errors.New("invalid credential state")

	// ErrPasswordNotSet is returned when a password is marked modified but no
	// plaintext is pending on the record.
	ErrPasswordNotSet = errors.New("password not set")
)
