package apidoc

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the typed errors below.
var (
	ErrMissingType        = errors.New("missing parameter type")
	ErrInvalidJSON        = errors.New("invalid JSON")
	ErrUnknownTransformer = errors.New("unknown transformer")
	ErrUnknownGenerator   = errors.New("unknown generator")
	ErrNoFilter           = errors.New("no route filter")
	ErrConflictingMarkers = errors.New("conflicting required markers")
)

// ParseError reports malformed tag content. It is fatal to the parameter or
// response it describes, never to the run.
type ParseError struct {
	Route string
	Field string
	Err   error
}

// Error returns the message.
func (e *ParseError) Error() string {
	if e.Route == "" {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("route %s: parse %s: %v", e.Route, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// ResolutionError reports a transformer or model that could not be located
// or instantiated. The route keeps going without an example response.
type ResolutionError struct {
	Route string
	Ref   string
	Err   error
}

// Error returns the message.
func (e *ResolutionError) Error() string {
	if e.Route == "" {
		return fmt.Sprintf("resolve %s: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("route %s: resolve %s: %v", e.Route, e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error { return e.Err }

// GeneratorError reports a failed example value generator. The caller
// always receives a fallback value alongside it.
type GeneratorError struct {
	Generator string
	Err       error
}

// Error returns the message.
func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generator %q: %v", e.Generator, e.Err)
}

// Unwrap returns the underlying error.
func (e *GeneratorError) Unwrap() error { return e.Err }

// ConfigurationError aborts a run before any route is processed.
type ConfigurationError struct {
	Reason string
	Err    error
}

// Error returns the message.
func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
