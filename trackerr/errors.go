// Package trackerr implements the engine's error taxonomy: configuration
// errors are fatal at construction time, schema-input mismatches are fatal
// when a frame is ingested or handed to the engine, empty frame sets are
// fatal at engine start, and resolver non-progress is only logged as a
// warning — no TrackingError is returned for it.
package trackerr

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Code identifies which taxonomy class an error belongs to (spec §7).
type Code string

const (
	// CodeConfiguration covers unknown enum values, mismatched weight
	// counts, and negative thresholds. Fatal at engine construction.
	CodeConfiguration Code = "configuration_error"
	// CodeSchemaMismatch covers a frame column missing, or carrying the
	// wrong element type for its schema field. Fatal at frame ingestion.
	CodeSchemaMismatch Code = "schema_input_mismatch"
	// CodeResolverNonProgress covers a resolver standby deadlock. Logged
	// as a warning; the affected trackers are abandoned for the frame,
	// but processing continues.
	CodeResolverNonProgress Code = "resolver_non_progress"
	// CodeEmptyFrameSet covers an engine started with fewer than two
	// frames. Fatal when Engine.Initialize is called; engine.New does not
	// receive the frames and does not check their count.
	CodeEmptyFrameSet Code = "empty_frame_set"
)

// TrackingError is the engine's structured error envelope.
type TrackingError struct {
	Code          Code                   `json:"code"`
	Message       string                 `json:"message"`
	Component     string                 `json:"component"`
	CorrelationID string                 `json:"correlation_id"`
	Timestamp     string                 `json:"timestamp"`
	Details       map[string]interface{} `json:"details,omitempty"`
	Original      string                 `json:"original,omitempty"`

	cause error
}

// New creates a TrackingError with a fresh correlation id.
func New(code Code, component, message string) *TrackingError {
	return &TrackingError{
		Code:          code,
		Message:       message,
		Component:     component,
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// Wrap creates a TrackingError that carries an underlying cause.
func Wrap(code Code, component, message string, cause error) *TrackingError {
	e := New(code, component, message)
	e.cause = cause
	if cause != nil {
		e.Original = cause.Error()
	}
	return e
}

// WithDetails attaches structured context to the error and returns it for
// chaining.
func (e *TrackingError) WithDetails(details map[string]interface{}) *TrackingError {
	e.Details = details
	return e
}

// Error implements the error interface.
func (e *TrackingError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Component, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Component, e.Message)
}

// Unwrap supports errors.As/errors.Unwrap against the wrapped cause.
func (e *TrackingError) Unwrap() error {
	return e.cause
}

// Is supports errors.Is comparisons keyed on Code alone, so callers can
// write errors.Is(err, trackerr.New(trackerr.CodeConfiguration, "", "")).
func (e *TrackingError) Is(target error) bool {
	other, ok := target.(*TrackingError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// MarshalJSON ensures proper JSON serialization of the exported fields.
func (e *TrackingError) MarshalJSON() ([]byte, error) {
	type Alias TrackingError
	return json.Marshal((*Alias)(e))
}

// Configuration builds a CodeConfiguration error.
func Configuration(component, message string) *TrackingError {
	return New(CodeConfiguration, component, message)
}

// SchemaMismatch builds a CodeSchemaMismatch error.
func SchemaMismatch(component, message string) *TrackingError {
	return New(CodeSchemaMismatch, component, message)
}

// EmptyFrameSet builds a CodeEmptyFrameSet error.
func EmptyFrameSet(component, message string) *TrackingError {
	return New(CodeEmptyFrameSet, component, message)
}

// ResolverNonProgress builds a CodeResolverNonProgress error. The engine
// does not build or return one: it reports non-progress through
// tracklog.Logger.WarnResolverNonProgress.
func ResolverNonProgress(component, message string) *TrackingError {
	return New(CodeResolverNonProgress, component, message)
}
