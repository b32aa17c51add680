package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Field, w.Message)
}

// ValidationResults holds the results of configuration validation.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r ValidationResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessage returns a combined error message for all validation errors.
func (r ValidationResults) ErrorMessage() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// WriteWarnings writes all warnings to the given writer.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, warn.String())
	}
}

// Validate checks the configuration for errors and warnings.
// It returns errors for invalid values that would cause runtime issues,
// and warnings for issues that can be safely ignored.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if len(c.Entries) == 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "entries",
			Message: "no entry patterns configured, nothing will be bundled",
		})
	}

	for _, pattern := range c.Entries {
		if strings.TrimSpace(pattern) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "entries",
				Message: "entry pattern must not be empty",
			})
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "entries",
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	if c.OutDir == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "out_dir",
			Message: "output directory must not be empty",
		})
	}

	if c.DevelopmentURL != "" {
		if strings.ContainsAny(c.DevelopmentURL, " \t\n") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "development_url",
				Message: fmt.Sprintf("URL %q must not contain whitespace", c.DevelopmentURL),
			})
		} else if u, err := url.Parse(c.DevelopmentURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "development_url",
				Message: fmt.Sprintf("invalid URL %q, expected scheme and host (e.g. http://localhost:5000)", c.DevelopmentURL),
			})
		}
	}

	if c.UpdateCheck.Interval < 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "update_check.interval",
			Message: "negative interval, update checks will run on every invocation",
		})
	}

	return result
}
