package models

import (
	"errors"
	"fmt"
)

// ErrNormalization is wrapped by every NormalizationError
var ErrNormalization = errors.New("normalization failed")

// NormalizationError reports raw API data that does not have the expected shape.
// It aborts the scenario that produced it.
type NormalizationError struct {
	ProductID string
	Field     string
	Reason    string
}

func (e *NormalizationError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("normalize %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("normalize product %s field %s: %s", e.ProductID, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrNormalization
func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}

// IsNormalizationError reports whether err is or wraps a NormalizationError
func IsNormalizationError(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}
