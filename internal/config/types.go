// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stylevars/stylevars/internal/datamod"
	"github.com/stylevars/stylevars/internal/resolve"
	"github.com/stylevars/stylevars/pkg/cueutil"
)

const (
	// LogLevelDebug logs every resolved module and cache eviction.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs completed passes.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable problems only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// DefaultDebounce is the default quiet period of the watch command.
	DefaultDebounce = "300ms"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Modules lists directory names searched upward for "~" references.
		Modules []string `json:"modules" mapstructure:"modules"`
		// Root re-roots "/"-prefixed references when non-empty.
		Root string `json:"root" mapstructure:"root"`
		// Extensions are tried in order when a reference does not name a file.
		Extensions []string `json:"extensions" mapstructure:"extensions"`
		// Concurrency bounds directive expansion; 0 is unbounded.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// CacheSize is the module cache capacity.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
		// MaxFileSize is the largest data module accepted, in bytes.
		MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"`
		// LogLevel sets the logger threshold
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Watch configures the watch command
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// WatchConfig configures the watch command.
	WatchConfig struct {
		// Debounce is the quiet period before a re-run, as a Go duration string.
		Debounce string `json:"debounce" mapstructure:"debounce"`
		// ClearScreen clears the terminal before every re-run.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// DebounceDuration parses Debounce, falling back to DefaultDebounce when it is empty.
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	s := c.Debounce
	if s == "" {
		s = DefaultDebounce
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce: negative duration %s", s)
	}
	return d, nil
}

// IsValid returns whether the WatchConfig is valid.
func (c WatchConfig) IsValid() (bool, []error) {
	if _, err := c.DebounceDuration(); err != nil {
		return false, []error{&InvalidWatchConfigError{FieldErrors: []error{err}}}
	}
	return true, nil
}

func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the Config is valid, collecting every field error.
// The CUE schema rejects most of these at load time; IsValid also covers
// values that arrive through environment overrides.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Watch.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize))
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("extensions[%d]: %q must start with a dot", i, ext))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both the
// config sentinel and field sentinels match with errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// ResolveOptions returns the module resolver options described by the configuration.
func (c Config) ResolveOptions() resolve.Options {
	return resolve.Options{
		ModuleDirs: c.Modules,
		Root:       c.Root,
		Extensions: c.Extensions,
	}
}

// LoaderOptions returns the module loader options described by the configuration.
func (c Config) LoaderOptions() datamod.Options {
	return datamod.Options{
		CacheSize:   c.CacheSize,
		MaxFileSize: c.MaxFileSize,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Modules:     append([]string(nil), resolve.DefaultModuleDirs...),
		Root:        "",
		Extensions:  append([]string(nil), resolve.DefaultExtensions...),
		Concurrency: 0,
		CacheSize:   datamod.DefaultCacheSize,
		MaxFileSize: cueutil.DefaultMaxFileSize,
		LogLevel:    LogLevelInfo,
		Watch: WatchConfig{
			Debounce:    DefaultDebounce,
			ClearScreen: false,
		},
	}
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
