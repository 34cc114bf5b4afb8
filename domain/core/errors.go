package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)
)

// NewNotFoundError wraps ErrNotFound with the resource kind and id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
