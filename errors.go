package salin

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPhrase is returned when a blank phrase is submitted.
	ErrEmptyPhrase = errors.New("phrase cannot be empty")

	// ErrNoRoute is returned when the selected tier has no backend configured.
	ErrNoRoute = errors.New("no translation route configured")

	// ErrInvalidEntry is the cause of a CacheError for an entry the memory
	// refuses to store: blank phrase, blank translation or control characters.
	ErrInvalidEntry = errors.New("invalid memory entry")
)

// ServiceError indicates a remote translation failure (transport, auth,
// malformed response).
type ServiceError struct {
	Op      string // Backend that failed, e.g. "openai"
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service error (%s): %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("service error (%s): %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// DecodeError indicates an offline engine failure.
type DecodeError struct {
	Stage string // "tokenize", "decode" or "detokenize"
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error (%s): %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("decode error (%s)", e.Stage)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a translation memory failure (load or persist).
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ResolutionError is returned when a request ends in the failed state.
type ResolutionError struct {
	Phrase string
	Tier   Tier // Tier that was attempted last
	Cause  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q via %s: %v", e.Phrase, e.Tier, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}
