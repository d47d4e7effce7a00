package validate

import "errors"

var (
	// ErrInvalidProxyAddress is returned when the proxy is not in host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrTooManyRedirects is the transport error for a redirect chain
	// longer than the client allows.
	ErrTooManyRedirects = errors.New("stopped after too many redirects")
)
