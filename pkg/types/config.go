package types

import "time"

// HTTPConfig holds shared HTTP settings for calls to the backend.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "regdesk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// GatewayConfig holds settings for the fetch gateway.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the backend origin, e.g. "https://app.example.com".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RequestsPerSecond caps outbound calls. Zero disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the limiter burst size (default 1).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// MaxRateLimitRetries is the number of retries on HTTP 429 for GET
	// requests. Zero uses the httputil default; negative disables retries.
	MaxRateLimitRetries int `json:"max_rate_limit_retries" yaml:"max_rate_limit_retries" mapstructure:"max_rate_limit_retries"`
}

// SessionConfig holds settings for the login session store.
type SessionConfig struct {
	// Path is the SQLite database file that holds the session.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a session stays valid after login (default 12h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives a copy of every log line.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// WorkbenchConfig groups all client configuration.
type WorkbenchConfig struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway" mapstructure:"gateway"`
	Session SessionConfig `json:"session" yaml:"session" mapstructure:"session"`
	Log     LoggingConfig `json:"log" yaml:"log" mapstructure:"log"`
}
