package config

import (
	"fmt"
	"net"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/doclinks/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "doclinks"

	// DefaultTimeout bounds each link request. Without a bound a single
	// hung server stalls the whole walk, because documents are processed
	// one after another.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies doclinks in HTTP requests.
	DefaultUserAgent = "doclinks/1.0 (+https://github.com/nao1215/doclinks)"
)

// Config holds all options for one check run.
// It is populated from CLI flags and the config file and passed down
// explicitly; nothing reads it from global state.
type Config struct {
	// Target is the directory to walk.
	Target string

	// Timeout is the per-request timeout. Zero disables it.
	Timeout time.Duration

	// UserAgent is sent with every link request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	ProxyAddress string

	// StatusPolicy decides whether HTTP error statuses count as dead.
	StatusPolicy model.StatusPolicy

	// FailOnDead makes the run exit non-zero when a dead link was reported.
	FailOnDead bool

	// IgnorePatterns are URL globs that are never requested.
	IgnorePatterns []string

	// ExcludeDirs are directory base names the walker never descends into.
	ExcludeDirs []string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file; empty means search.
	ConfigFilePath string

	// Record saves the finished run to the history database.
	Record bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		StatusPolicy: model.StatusTransportOnly,
		DBDir:        XDGDataDir(),
	}
}

// ApplyFile copies values from a loaded config file into c.
// Only fields present in the file are applied; list fields are appended.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Timeout != nil {
		c.Timeout = f.Timeout.Duration
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.StatusCheck {
		c.StatusPolicy = model.StatusDeadOnError
	}
	if f.FailOnDead {
		c.FailOnDead = true
	}
	c.IgnorePatterns = append(c.IgnorePatterns, f.Ignore...)
	c.ExcludeDirs = append(c.ExcludeDirs, f.ExcludeDirs...)
}

// XDGDataDir returns the XDG data directory for doclinks.
// On Linux: ~/.local/share/doclinks
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for doclinks.
// On Linux: ~/.config/doclinks
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}
	for _, p := range c.IgnorePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidIgnorePattern, p, err)
		}
	}
	return nil
}

// IsValidProxyAddress checks that address is "host:port" with a non-empty
// host and a port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
