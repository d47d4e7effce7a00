package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoTarget is returned when no directory to check was given.
	ErrNoTarget = errors.New("no target specified: provide a directory path")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Zero is allowed and disables the request timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidProxyAddress is returned when the proxy is not in host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrInvalidIgnorePattern is returned when an ignore glob does not compile.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)
