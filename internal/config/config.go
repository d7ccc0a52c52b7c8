// Package config loads SDK configuration from environment variables and an
// optional .env file. Out-of-range values are replaced by their defaults
// rather than rejected, matching every other hackle SDK.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	DefaultSDKURL   = "https://sdk.hackle.io"
	DefaultEventURL = "https://event.hackle.io"

	DefaultEventFlushInterval         = 10 * time.Second
	DefaultEventFlushThreshold        = 10
	DefaultExposureEventDedupInterval = 60 * time.Second

	// NoDedup disables exposure event deduplication.
	NoDedup time.Duration = -time.Second
)

const (
	minEventFlushInterval         = 1 * time.Second
	maxEventFlushInterval         = 60 * time.Second
	minEventFlushThreshold        = 5
	maxEventFlushThreshold        = 30
	minExposureEventDedupInterval = 1 * time.Second
	maxExposureEventDedupInterval = 3600 * time.Second
)

// Config holds SDK configuration.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	SDKURL                     string        // Workspace config endpoint
	EventURL                   string        // Event delivery endpoint
	EventFlushInterval         time.Duration // How often queued events are flushed
	EventFlushThreshold        int           // Queue size that triggers an early flush
	ExposureEventDedupInterval time.Duration // Window for dropping duplicate exposures, NoDedup to disable
	LogLevel                   string        // zerolog level name
	WorkspaceFile              string        // Local workspace document, optional
}

// Option customizes a Config built by New.
type Option func(*Config)

func WithSDKURL(u string) Option { return func(c *Config) { c.SDKURL = u } }

func WithEventURL(u string) Option { return func(c *Config) { c.EventURL = u } }

func WithEventFlushInterval(d time.Duration) Option {
	return func(c *Config) { c.EventFlushInterval = d }
}

func WithEventFlushThreshold(n int) Option {
	return func(c *Config) { c.EventFlushThreshold = n }
}

func WithExposureEventDedupInterval(d time.Duration) Option {
	return func(c *Config) { c.ExposureEventDedupInterval = d }
}

func WithLogLevel(level string) Option { return func(c *Config) { c.LogLevel = level } }

func WithWorkspaceFile(path string) Option { return func(c *Config) { c.WorkspaceFile = path } }

// Default returns the configuration with every value at its default.
func Default() *Config {
	return &Config{
		SDKURL:                     DefaultSDKURL,
		EventURL:                   DefaultEventURL,
		EventFlushInterval:         DefaultEventFlushInterval,
		EventFlushThreshold:        DefaultEventFlushThreshold,
		ExposureEventDedupInterval: DefaultExposureEventDedupInterval,
		LogLevel:                   "info",
	}
}

// New applies opts over the defaults and resets out-of-range values to their
// defaults, logging each reset at info level.
func New(logger zerolog.Logger, opts ...Option) *Config {
	c := Default()
	for _, opt := range opts {
		opt(c)
	}
	c.clamp(logger)
	return c
}

func (c *Config) clamp(logger zerolog.Logger) {
	if c.EventFlushInterval < minEventFlushInterval || c.EventFlushInterval > maxEventFlushInterval {
		logger.Info().Dur("value", c.EventFlushInterval).
			Msg("Event flush interval is outside allowed range[1s..60s]. Setting to default value[10s]")
		c.EventFlushInterval = DefaultEventFlushInterval
	}
	if c.EventFlushThreshold < minEventFlushThreshold || c.EventFlushThreshold > maxEventFlushThreshold {
		logger.Info().Int("value", c.EventFlushThreshold).
			Msg("Event flush threshold is outside allowed range[5..30]. Setting to default value[10]")
		c.EventFlushThreshold = DefaultEventFlushThreshold
	}
	if c.ExposureEventDedupInterval != NoDedup &&
		(c.ExposureEventDedupInterval < minExposureEventDedupInterval || c.ExposureEventDedupInterval > maxExposureEventDedupInterval) {
		logger.Info().Dur("value", c.ExposureEventDedupInterval).
			Msg("Exposure event dedup interval is outside allowed range[1s..3600s]. Setting to default value[60s]")
		c.ExposureEventDedupInterval = DefaultExposureEventDedupInterval
	}
}

// Load reads configuration from environment variables and .env file (if present).
// Durations accept Go duration syntax ("15s") or a plain number of seconds.
// A value that cannot be parsed at all is an error; a parsable value outside
// its range is reset to the default.
func Load(logger zerolog.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = v.ReadInConfig()
	v.AutomaticEnv()
	setConfigDefaults(v)

	flushInterval, err := seconds(v, "HACKLE_EVENT_FLUSH_INTERVAL")
	if err != nil {
		return nil, err
	}
	dedupInterval, err := seconds(v, "HACKLE_EXPOSURE_EVENT_DEDUP_INTERVAL")
	if err != nil {
		return nil, err
	}
	threshold, err := strconv.Atoi(strings.TrimSpace(v.GetString("HACKLE_EVENT_FLUSH_THRESHOLD")))
	if err != nil {
		return nil, ValidationError{Field: "HACKLE_EVENT_FLUSH_THRESHOLD", Message: "must be an integer"}
	}

	return New(logger,
		WithSDKURL(v.GetString("HACKLE_SDK_URL")),
		WithEventURL(v.GetString("HACKLE_EVENT_URL")),
		WithEventFlushInterval(flushInterval),
		WithEventFlushThreshold(threshold),
		WithExposureEventDedupInterval(dedupInterval),
		WithLogLevel(v.GetString("HACKLE_LOG_LEVEL")),
		WithWorkspaceFile(v.GetString("HACKLE_WORKSPACE_FILE")),
	), nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("HACKLE_SDK_URL", DefaultSDKURL)
	v.SetDefault("HACKLE_EVENT_URL", DefaultEventURL)
	v.SetDefault("HACKLE_EVENT_FLUSH_INTERVAL", "10s")
	v.SetDefault("HACKLE_EVENT_FLUSH_THRESHOLD", DefaultEventFlushThreshold)
	v.SetDefault("HACKLE_EXPOSURE_EVENT_DEDUP_INTERVAL", "60s")
	v.SetDefault("HACKLE_LOG_LEVEL", "info")
	v.SetDefault("HACKLE_WORKSPACE_FILE", "")
}

func seconds(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid duration %q", raw)}
	}
	return time.Duration(n * float64(time.Second)), nil
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks the values that cannot be reset to a sensible default.
//
// Validation Rules:
//  1. SDKURL and EventURL must be absolute http or https URLs
//  2. LogLevel must be a zerolog level name when set
//
// Returns the first failure as a ValidationError.
func (c *Config) Validate() error {
	for _, f := range []struct{ field, value string }{
		{"HACKLE_SDK_URL", c.SDKURL},
		{"HACKLE_EVENT_URL", c.EventURL},
	} {
		u, err := url.Parse(f.value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{
				Field:   f.field,
				Message: fmt.Sprintf("must be an absolute http(s) URL, got '%s'", f.value),
			}
		}
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return ValidationError{
				Field:   "HACKLE_LOG_LEVEL",
				Message: fmt.Sprintf("unknown log level '%s'", c.LogLevel),
			}
		}
	}
	return nil
}
