package model

import (
	"net/http"
	"time"
)

// StatusPolicy decides which validation outcomes count as a dead link.
type StatusPolicy int

const (
	// StatusTransportOnly treats a link as dead only when the request fails
	// before a response arrives (DNS, refused connection, TLS, timeout,
	// unsupported scheme). Any HTTP status, 404 included, is reachable.
	StatusTransportOnly StatusPolicy = iota

	// StatusDeadOnError also treats HTTP status codes >= 400 as dead.
	StatusDeadOnError
)

// String returns a human-readable name of the policy.
func (p StatusPolicy) String() string {
	switch p {
	case StatusTransportOnly:
		return "transport-only"
	case StatusDeadOnError:
		return "dead-on-error-status"
	default:
		return "unknown"
	}
}

// ParseStatusPolicy is the inverse of StatusPolicy.String. Unknown names
// map to StatusTransportOnly.
func ParseStatusPolicy(s string) StatusPolicy {
	if s == StatusDeadOnError.String() {
		return StatusDeadOnError
	}
	return StatusTransportOnly
}

// Result is the outcome of validating a single link.
type Result struct {
	// URL is the link exactly as it appeared in the document.
	URL string `json:"url"`

	// Source is the path of the document the link came from.
	Source string `json:"source"`

	// StatusCode is the HTTP status of the final response, 0 if none arrived.
	StatusCode int `json:"status_code,omitempty"`

	// Err is the transport error, nil if a response arrived.
	Err error `json:"-"`

	// ErrorMessage mirrors Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Elapsed is the wall time spent on the request.
	Elapsed time.Duration `json:"elapsed"`

	// Skipped is true when the link matched an ignore pattern and no
	// request was sent.
	Skipped bool `json:"skipped,omitempty"`
}

// Dead reports whether the result counts as a dead link under the policy.
// Skipped links are never dead.
func (r Result) Dead(policy StatusPolicy) bool {
	if r.Skipped {
		return false
	}
	if r.Err != nil {
		return true
	}
	if policy == StatusDeadOnError {
		return r.StatusCode >= http.StatusBadRequest
	}
	return false
}

// Reason returns a short explanation of why the link is dead.
func (r Result) Reason() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.StatusCode != 0 {
		return http.StatusText(r.StatusCode)
	}
	return ""
}
