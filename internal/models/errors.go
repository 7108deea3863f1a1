package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrUnknownMarket      = errors.New("unknown market type")
	ErrInsufficientSample = errors.New("insufficient sample size")
	ErrNoOdds             = errors.New("no odds available")
)

// ConfigError is a fatal configuration failure: the run must abort with
// no partial output rather than score with a broken weight table.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Reason)
}

// NewConfigError creates a ConfigError for the given field
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// IsConfigError reports whether err is (or wraps) a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
