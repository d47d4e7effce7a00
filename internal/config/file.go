package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// File represents the structure of the .doclinks configuration file.
type File struct {
	// Timeout is the per-request timeout, e.g. "10s". Nil when unset.
	Timeout *Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a SOCKS5 proxy address in host:port form.
	Proxy string `yaml:"proxy,omitempty"`

	// StatusCheck treats HTTP status codes >= 400 as dead.
	StatusCheck bool `yaml:"statusCheck,omitempty"`

	// FailOnDead exits non-zero when dead links are found.
	FailOnDead bool `yaml:"failOnDead,omitempty"`

	// Ignore lists URL glob patterns that are never requested,
	// e.g. "http://localhost*" or "https://example.com/*".
	Ignore []string `yaml:"ignore,omitempty"`

	// ExcludeDirs lists directory names that are not descended,
	// e.g. "node_modules" or ".git".
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
}

// Duration wraps time.Duration so it can be written as "30s" in YAML.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
