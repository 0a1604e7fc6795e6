// Package calcerr defines the error taxonomy shared by the calculator core.
package calcerr

import "fmt"

// ValidationError reports a bad operand or a violated operation precondition.
// Always recoverable by re-prompting the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// OperationError reports a usage or I/O fault during execution or
// persistence: no operation selected, a non-finite intermediate result, or a
// failed save/load.
type OperationError struct {
	Msg string
	Err error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *OperationError) Unwrap() error { return e.Err }

// SerializationError reports a stored record failing structural validation
// during load.
type SerializationError struct {
	Msg string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ConfigurationError reports invalid configuration values. The core treats
// configuration as already validated at its boundary; this error belongs to
// the configuration layer.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }
