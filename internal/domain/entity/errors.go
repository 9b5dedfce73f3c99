package entity

import "fmt"

// ConfigError marks invalid or missing configuration. It is fatal: nothing is
// scheduled once one is raised.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// FilterSyntaxError marks a malformed filter rule string. It is raised while
// validating configuration, never during record evaluation.
type FilterSyntaxError struct {
	Rule   string
	Reason string
}

func (e *FilterSyntaxError) Error() string {
	return fmt.Sprintf("filter rule %q: %s", e.Rule, e.Reason)
}

// FetchError wraps a live-fetch failure for one wallet. It stays inside that
// wallet's JobResult and never aborts the batch.
type FetchError struct {
	Address string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch for %s: %v", e.Address, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
