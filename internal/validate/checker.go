package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/doclinks/internal/model"
)

// maxDrainBytes caps how much of a response body is read before closing,
// so keep-alive connections can be reused without downloading large files.
const maxDrainBytes = 64 * 1024

// Checker validates links with a shared HTTP client.
// A Checker is safe for concurrent use.
type Checker struct {
	client         *http.Client
	ignorePatterns []string
	logger         *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithIgnorePatterns skips links matching any of the glob patterns.
func WithIgnorePatterns(patterns ...string) Option {
	return func(c *Checker) {
		c.ignorePatterns = append(c.ignorePatterns, patterns...)
	}
}

// WithLogger sets the logger for per-link debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker that sends requests with client.
// A nil client means http.DefaultClient.
func NewChecker(client *http.Client, opts ...Option) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	c := &Checker{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check sends a GET for link and returns the outcome. It never returns
// an error: a failed request is recorded in Result.Err.
//
// The link is used exactly as written. A link the HTTP client cannot
// handle, such as a relative path or a mailto: URL, fails at the transport
// layer like any other unreachable link.
func (c *Checker) Check(ctx context.Context, link string) model.Result {
	result := model.Result{URL: link}

	if c.ignored(link) {
		result.Skipped = true
		c.logger.Debug("link skipped by ignore pattern", "url", link)
		return result
	}

	start := time.Now()
	status, err := c.get(ctx, link)
	result.StatusCode = status
	if err != nil {
		result.Err = err
		result.ErrorMessage = err.Error()
	}
	result.Elapsed = time.Since(start)

	c.logger.Debug("link checked",
		"url", link,
		"status", status,
		"elapsed", result.Elapsed,
		"error", err,
	)
	return result
}

func (c *Checker) get(ctx context.Context, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// A failed drain does not change the outcome: the status arrived.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes)) //nolint:errcheck // body content is irrelevant

	return resp.StatusCode, nil
}

func (c *Checker) ignored(link string) bool {
	for _, p := range c.ignorePatterns {
		if matchPattern(p, link) {
			return true
		}
	}
	return false
}
