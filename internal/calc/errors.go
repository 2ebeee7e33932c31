// Package calc holds the pure calculators that turn stored readings into the
// derived figures shown to operators: running stock, barrel conversions, truck
// fuel projections and counterparty balances.
package calc

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput indicates a non-finite or out-of-range scalar.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFactor indicates a kilograms-per-unit factor that is not a positive finite number.
	ErrInvalidFactor = errors.New("conversion factor must be a positive number")
	// ErrInvalidConsumptionRate indicates a consumption rate that would divide by zero.
	ErrInvalidConsumptionRate = errors.New("consumption rate must be greater than zero")
)

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
