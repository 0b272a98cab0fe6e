package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Domain errors: the input itself is outside the function's domain.
	ErrDomain           = errors.New("domain error")
	ErrNonPositiveValue = fmt.Errorf("%w: value must be positive", ErrDomain)

	// Config errors: search bounds or tuning parameters are invalid.
	ErrConfig             = errors.New("config error")
	ErrInvalidBase        = fmt.Errorf("%w: base must be > 1", ErrConfig)
	ErrInvalidDepth       = fmt.Errorf("%w: invalid correction depth bound", ErrConfig)
	ErrInvalidThreshold   = fmt.Errorf("%w: threshold must be > 0", ErrConfig)
	ErrInvalidSampleCount = fmt.Errorf("%w: sample count must be > 0", ErrConfig)
	ErrInvalidDecadeRange = fmt.Errorf("%w: log_min must be < log_max", ErrConfig)
	ErrInvalidRate        = fmt.Errorf("%w: rate must be within [0, 1]", ErrConfig)
	ErrInvalidAltRate     = fmt.Errorf("%w: alternative rate must be within (0, 1)", ErrConfig)

	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// NewDomainError wraps a domain error with the offending value.
func NewDomainError(base error, value float64) error {
	return fmt.Errorf("%w (got %g)", base, value)
}

// NewConfigError wraps a config error with the offending setting.
func NewConfigError(base error, setting string, value interface{}) error {
	return fmt.Errorf("%w: %s=%v", base, setting, value)
}

// Error checking helpers
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
