// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates url2md settings and builds the logger.
package config

import (
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/url2md/pkg/types"
)

// EnvPrefix is prepended to environment overrides, e.g. URL2MD_READER_BASE_URL.
const EnvPrefix = "URL2MD"

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("reader.base_url", "https://r.jina.ai")
	v.SetDefault("reader.timeout", 60*time.Second)
	v.SetDefault("reader.user_agent", "url2md/0.1")
	v.SetDefault("output.dir", ".")
	v.SetDefault("tui.toast_duration", 3*time.Second)
	v.SetDefault("tui.disabled", false)
	v.SetDefault("serve.addr", ":3000")
	v.SetDefault("serve.requests_per_second", 2.0)
	v.SetDefault("serve.burst", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// BindEnv enables URL2MD_* environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load applies defaults and environment overrides to v, reads the config
// file if one is configured or found, and returns the validated result.
// A missing config file is not an error.
func Load(v *viper.Viper) (*types.Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := Validate(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: invalid")
	}
	return &cfg, nil
}

// Validate checks cfg for values no component can work with.
func Validate(cfg *types.Config) error {
	return validation.Errors{
		"reader": validation.ValidateStruct(&cfg.Reader,
			validation.Field(&cfg.Reader.BaseURL, validation.Required, validation.By(httpURL)),
			validation.Field(&cfg.Reader.Timeout, validation.By(positiveDuration)),
		),
		"output": validation.ValidateStruct(&cfg.Output,
			validation.Field(&cfg.Output.Dir, validation.Required),
		),
		"tui": validation.ValidateStruct(&cfg.TUI,
			validation.Field(&cfg.TUI.ToastDuration, validation.By(positiveDuration)),
		),
		"serve": validation.ValidateStruct(&cfg.Serve,
			validation.Field(&cfg.Serve.Addr, validation.Required),
			validation.Field(&cfg.Serve.RequestsPerSecond, validation.Min(0.0)),
			validation.Field(&cfg.Serve.Burst, validation.Min(0)),
		),
		"log": validation.ValidateStruct(&cfg.Log,
			validation.Field(&cfg.Log.Level, validation.By(zapLevel)),
			validation.Field(&cfg.Log.Format, validation.In("console", "json")),
		),
	}.Filter()
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_http_url", "must be an absolute http(s) URL")
	}
	return nil
}

func positiveDuration(value any) error {
	d, _ := value.(time.Duration)
	if d <= 0 {
		return validation.NewError("validation_positive_duration", "must be a positive duration")
	}
	return nil
}

func zapLevel(value any) error {
	s, _ := value.(string)
	if _, err := zapcore.ParseLevel(s); err != nil {
		return validation.NewError("validation_log_level", "must be one of debug, info, warn, error")
	}
	return nil
}

// NewLogger builds a zap logger from cfg. Output goes to cfg.File when set,
// otherwise to stderr.
func NewLogger(cfg types.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}

// InitLogger builds a logger from cfg and installs it as the zap global.
func InitLogger(cfg types.LogConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
