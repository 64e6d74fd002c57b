package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/holiday-windows/internal/calendar"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents calendar source configuration
type CalendarConfig struct {
	SourceURL         string `mapstructure:"source_url"`   // Must contain {year}
	FallbackDir       string `mapstructure:"fallback_dir"` // Optional directory of {year}.json files
	HTTPTimeout       string `mapstructure:"http_timeout"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	Timezone          string `mapstructure:"timezone"`
	PrefillYear       bool   `mapstructure:"prefill_year"`
}

// QueueConfig represents the request serialization queue configuration
type QueueConfig struct {
	Capacity          int    `mapstructure:"capacity"`
	EnqueueTimeout    string `mapstructure:"enqueue_timeout"`
	CompletionTimeout string `mapstructure:"completion_timeout"` // Empty or "0" waits indefinitely
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file. A missing config file is not an error
// when no explicit path was given; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.holiday-windows")
		v.AddConfigPath("/etc/holiday-windows")
	}

	// Read environment variables, e.g. HOLIDAY_WINDOWS_SERVER_ADDR
	v.SetEnvPrefix("holiday_windows")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.source_url", calendar.DefaultSourceURL)
	v.SetDefault("calendar.http_timeout", "10s")
	v.SetDefault("calendar.requests_per_minute", 30)
	v.SetDefault("calendar.timezone", "Asia/Taipei")
	v.SetDefault("calendar.prefill_year", false)
	v.SetDefault("queue.capacity", 200)
	v.SetDefault("queue.enqueue_timeout", "5s")
	v.SetDefault("queue.completion_timeout", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Calendar config
	if c.Calendar.SourceURL == "" {
		return fmt.Errorf("calendar.source_url is required")
	}
	if !strings.Contains(c.Calendar.SourceURL, "{year}") {
		return fmt.Errorf("calendar.source_url must contain {year}, got '%s'", c.Calendar.SourceURL)
	}
	if c.Calendar.RequestsPerMinute < 0 {
		return fmt.Errorf("calendar.requests_per_minute must not be negative")
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return err
	}

	// Validate Queue config
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity must be positive")
	}
	for key, value := range map[string]string{
		"calendar.http_timeout":    c.Calendar.HTTPTimeout,
		"queue.enqueue_timeout":    c.Queue.EnqueueTimeout,
		"queue.completion_timeout": c.Queue.CompletionTimeout,
		"server.shutdown_timeout":  c.Server.ShutdownTimeout,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%s must be a non-negative duration, got '%s'", key, value)
		}
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	return nil
}

// GetLocation returns the reference timezone used to decide the current month
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone '%s' is unknown: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetHTTPTimeout returns the calendar request timeout
func (c *CalendarConfig) GetHTTPTimeout() time.Duration {
	return parseDuration(c.HTTPTimeout, 10*time.Second)
}

// GetEnqueueTimeout returns how long a caller waits for a free queue slot
func (c *QueueConfig) GetEnqueueTimeout() time.Duration {
	return parseDuration(c.EnqueueTimeout, 5*time.Second)
}

// GetCompletionTimeout returns how long a caller waits for its result (0 = forever)
func (c *QueueConfig) GetCompletionTimeout() time.Duration {
	return parseDuration(c.CompletionTimeout, 0)
}

// GetShutdownTimeout returns the graceful shutdown deadline
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}
