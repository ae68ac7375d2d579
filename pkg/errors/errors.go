package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Expansion errors
	ErrExpansionFailed ErrorCode = "EXPANSION_FAILED"
	ErrEngineMissing   ErrorCode = "ENGINE_MISSING"

	// Deferred action script errors
	ErrScriptParse ErrorCode = "SCRIPT_PARSE"
	ErrScriptWrite ErrorCode = "SCRIPT_WRITE"

	// Plugin errors
	ErrVerbUnknown ErrorCode = "VERB_UNKNOWN"
	ErrVerbExists  ErrorCode = "VERB_EXISTS"
	ErrVerbInvalid ErrorCode = "VERB_INVALID"

	// Install errors
	ErrInstallFailed ErrorCode = "INSTALL_FAILED"
	ErrNotManaged    ErrorCode = "NOT_MANAGED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// ConmanError represents a structured error with code and details
type ConmanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ConmanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConmanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ConmanError) Is(target error) bool {
	var targetErr *ConmanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConmanError with the given code and message
func New(code ErrorCode, message string) *ConmanError {
	return &ConmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConmanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConmanError {
	return &ConmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ConmanError
func Wrap(err error, code ErrorCode, message string) *ConmanError {
	if err == nil {
		return nil
	}
	return &ConmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConmanError {
	if err == nil {
		return nil
	}
	return &ConmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ConmanError) WithDetail(key string, value interface{}) *ConmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cmErr *ConmanError
	if errors.As(err, &cmErr) {
		return cmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ConmanError
func GetErrorCode(err error) ErrorCode {
	var cmErr *ConmanError
	if errors.As(err, &cmErr) {
		return cmErr.Code
	}
	return ErrUnknown
}
