// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// OutputText prints resolved plugin orders as plain text.
	OutputText OutputFormat = "text"
	// OutputMarkdown renders resolved plugin orders as Markdown tables.
	OutputMarkdown OutputFormat = "markdown"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultCatalog is looked up in the working directory when no catalog is configured.
	DefaultCatalog CatalogPath = "catalog.cue"
)

var (
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	ErrInvalidCatalogPath = errors.New("invalid catalog path")
	ErrInvalidUIConfig    = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log records printed to stderr.
	LogLevel string

	// OutputFormat selects how resolution results are printed.
	OutputFormat string

	// ColorScheme selects the glamour/lipgloss palette.
	ColorScheme string

	// CatalogPath locates a plugin catalog file (.cue or .toml).
	CatalogPath string

	InvalidLogLevelError struct {
		Value LogLevel
	}

	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	InvalidCatalogPathError struct {
		Value CatalogPath
	}

	// InvalidUIConfigError wraps the field errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError wraps the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		LogLevel LogLevel     `json:"log_level" mapstructure:"log_level"`
		Catalog  CatalogPath  `json:"catalog" mapstructure:"catalog"`
		Output   OutputFormat `json:"output" mapstructure:"output"`
		UI       UIConfig     `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose prints error chains and renders issue pages on failure.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelWarn,
		Catalog:  DefaultCatalog,
		Output:   OutputText,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.LogLevel.IsValid,
		c.Catalog.IsValid,
		c.Output.IsValid,
		c.UI.IsValid,
	} {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
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

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", joinErrors(e.FieldErrors))
}

func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

func (l LogLevel) String() string { return string(l) }

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

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (f OutputFormat) String() string { return string(f) }

func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputMarkdown:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, markdown)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (p CatalogPath) String() string { return string(p) }

// IsValid rejects empty and whitespace-only paths.
func (p CatalogPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCatalogPathError{Value: p}}
	}
	return true, nil
}

func (e *InvalidCatalogPathError) Error() string {
	return fmt.Sprintf("invalid catalog path %q: must not be empty", e.Value)
}

func (e *InvalidCatalogPathError) Unwrap() error { return ErrInvalidCatalogPath }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
