// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "url2md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ReaderConfig holds settings for the conversion service client.
type ReaderConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the conversion service address that normalized page
	// addresses are appended to (default https://r.jina.ai).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// OutputConfig controls where converted files are written.
type OutputConfig struct {
	// Dir is the directory that receives downloaded markdown files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// TUIConfig holds settings for the interactive terminal widget.
type TUIConfig struct {
	// ToastDuration is how long a notification stays on screen.
	ToastDuration time.Duration `json:"toast_duration" yaml:"toast_duration" mapstructure:"toast_duration"`

	// Disabled starts the widget with every interaction suppressed.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// ServeConfig holds settings for the HTTP download endpoint.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":3000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RequestsPerSecond is the sustained conversion rate accepted by the
	// endpoint. Zero disables limiting.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the number of conversions allowed above the sustained rate.
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format selects "console" or "json" encoding.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File redirects log output to a file instead of stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all settings for url2md.
type Config struct {
	Reader ReaderConfig `json:"reader" yaml:"reader" mapstructure:"reader"`
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	TUI    TUIConfig    `json:"tui" yaml:"tui" mapstructure:"tui"`
	Serve  ServeConfig  `json:"serve" yaml:"serve" mapstructure:"serve"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
