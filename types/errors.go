package types

import (
	"errors"
	"fmt"
)

var (
	ErrSchema               = errors.New("gofvm: schema mismatch")
	ErrDegenerateMesh       = errors.New("gofvm: degenerate mesh")
	ErrNumericalInstability = errors.New("gofvm: numerical instability")
	ErrConfiguration        = errors.New("gofvm: invalid configuration")
)

// SchemaError is returned when a named field is missing from a state schema,
// or when two schemas are structurally incompatible.
type SchemaError struct {
	Schema string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema %q", e.Schema)
	if e.Field != "" {
		msg += fmt.Sprintf(", field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return ErrSchema.Error() + ": " + msg
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

type DegenerateMeshError struct {
	MinSize      float64
	MaxWaveSpeed float64
	Reason       string
}

func (e *DegenerateMeshError) Error() string {
	return fmt.Sprintf("%s: %s (min cell size %g, max wave speed %g)",
		ErrDegenerateMesh, e.Reason, e.MinSize, e.MaxWaveSpeed)
}

func (e *DegenerateMeshError) Unwrap() error { return ErrDegenerateMesh }

// NumericalInstabilityError reports the first non-finite value found while
// advancing the solution. Stage is -1 outside of the Runge-Kutta stages.
type NumericalInstabilityError struct {
	Time  float64
	Stage int
	I, J  int
	Field string
	Value float64
	Cause error
}

func (e *NumericalInstabilityError) Error() string {
	msg := fmt.Sprintf("%s at t=%g", ErrNumericalInstability, e.Time)
	if e.Stage >= 0 {
		msg += fmt.Sprintf(", stage %d", e.Stage)
	}
	msg += fmt.Sprintf(", cell (%d,%d)", e.I, e.J)
	if e.Field != "" {
		msg += fmt.Sprintf(", field %q = %g", e.Field, e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NumericalInstabilityError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNumericalInstability, e.Cause}
	}
	return []error{ErrNumericalInstability}
}

type ConfigurationError struct {
	Parameter string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Parameter == "" {
		return ErrConfiguration.Error() + ": " + e.Reason
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Parameter, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError is shorthand for the common parameter/reason case
func NewConfigurationError(parameter, format string, args ...interface{}) error {
	return &ConfigurationError{Parameter: parameter, Reason: fmt.Sprintf(format, args...)}
}
