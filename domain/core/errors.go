package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrPersonNotFound = fmt.Errorf("%w: person", ErrNotFound)
	ErrYearNotFound   = fmt.Errorf("%w: year", ErrNotFound)

	// Input validation errors
	ErrInvalidFrequencyVector   = errors.New("invalid frequency vector")
	ErrIncompatibleSampleLength = errors.New("incompatible sample length")
	ErrInsufficientData         = errors.New("insufficient data for analysis")
)

// Error constructors with context

func NewInvalidVectorError(got int) error {
	return fmt.Errorf("%w: expected 6 categories, got %d", ErrInvalidFrequencyVector, got)
}

func NewSampleLengthError(behavior string, want, got int) error {
	return fmt.Errorf("%w: behavior %q has %d samples, expected %d", ErrIncompatibleSampleLength, behavior, got, want)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, id)
}

// Error checking helpers

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidFrequencyVector) ||
		errors.Is(err, ErrIncompatibleSampleLength) ||
		errors.Is(err, ErrInsufficientData)
}
