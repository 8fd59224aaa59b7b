// Package errors provides the structured error taxonomy used across the
// harness. Errors carry enough context to be logged as structured events and
// are created with stack traces attached via cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ConfigurationError reports an invalid pipeline configuration. It is fatal:
// the pipeline refuses to start training when one is raised.
type ConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("effbench: invalid configuration for %q: %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds the configuration failure to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(param, reason string, value interface{}) error {
	err := &ConfigurationError{Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// TrainingError reports that a single model failed to fit. It is recovered
// locally: the model is marked failed and the remaining models proceed.
type TrainingError struct {
	Model string
	Err   error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("effbench: model %q failed to fit: %v", e.Model, e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }

// MarshalZerologObject adds the training failure to a zerolog event.
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		AnErr("cause", e.Err).
		Str("type", "TrainingError")
}

// NewTrainingError creates a TrainingError with a stack trace.
func NewTrainingError(model string, err error) error {
	return errors.WithStack(&TrainingError{Model: model, Err: err})
}

// PredictError reports that a fitted model failed to produce predictions.
// Recovery policy is the same as for TrainingError.
type PredictError struct {
	Model string
	Err   error
}

func (e *PredictError) Error() string {
	return fmt.Sprintf("effbench: model %q failed to predict: %v", e.Model, e.Err)
}

func (e *PredictError) Unwrap() error { return e.Err }

// MarshalZerologObject adds the prediction failure to a zerolog event.
func (e *PredictError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		AnErr("cause", e.Err).
		Str("type", "PredictError")
}

// NewPredictError creates a PredictError with a stack trace.
func NewPredictError(model string, err error) error {
	return errors.WithStack(&PredictError{Model: model, Err: err})
}

// EvaluationError reports a malformed evaluation input, typically a label
// outside the fixed domain or mismatched vector lengths. Fatal for the
// affected model's record only.
type EvaluationError struct {
	Model  string
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("effbench: cannot evaluate model %q: %s", e.Model, e.Reason)
}

// MarshalZerologObject adds the evaluation failure to a zerolog event.
func (e *EvaluationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("reason", e.Reason).
		Str("type", "EvaluationError")
}

// NewEvaluationError creates an EvaluationError with a stack trace.
func NewEvaluationError(model, reason string) error {
	return errors.WithStack(&EvaluationError{Model: model, Reason: reason})
}

// NotFittedError is returned when Predict or Transform is called on a model
// that has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("effbench: %s: not fitted yet, call Fit() before %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the not-fitted state to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError reports a shape mismatch between an input and what the
// component was fitted with or expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 rows, 1 columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("effbench: %s: dimension mismatch on %s: expected %d, got %d", e.Op, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the shape mismatch to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError reports an argument whose value is out of range for an
// operation even though its shape is fine.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("effbench: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// Wrapper functions so callers do not need to import cockroachdb/errors
// directly alongside this package.

// Is reports whether err matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Wrap annotates err with a message.
func Wrap(err error, message string) error { return errors.Wrap(err, message) }

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error { return errors.New(message) }

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

// Common sentinel errors.
var (
	// ErrEmptyData is returned when an operation receives no records.
	ErrEmptyData = New("empty data")

	// ErrUnknownModel is returned when configuration names a model that is
	// not present in the registry.
	ErrUnknownModel = New("unknown model name")
)
