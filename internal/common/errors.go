package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for the processing pipeline. Callers branch with errors.Is.
var (
	ErrInvalidRangeExpression = errors.New("invalid page range expression")
	ErrNoExtractableContent   = errors.New("no extractable content")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

// TranscriptionTransportError wraps a transport or timeout failure from the
// speech recognizer. It carries the chunk index that failed; remaining chunks
// are not attempted and no partial transcript is returned.
type TranscriptionTransportError struct {
	Chunk int
	Cause error
}

func (e *TranscriptionTransportError) Error() string {
	return fmt.Sprintf("transcription transport error on chunk %d: %v", e.Chunk, e.Cause)
}

func (e *TranscriptionTransportError) Unwrap() error { return e.Cause }

// TranslationTransportError wraps a transport or timeout failure from the
// translation provider.
type TranslationTransportError struct {
	Cause error
}

func (e *TranslationTransportError) Error() string {
	return fmt.Sprintf("translation transport error: %v", e.Cause)
}

func (e *TranslationTransportError) Unwrap() error { return e.Cause }

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
