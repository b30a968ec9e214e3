package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Planning errors. Any of these aborts the run before the filesystem is touched.
	ErrSourceMissing           ErrorCode = "SOURCE_MISSING"
	ErrDestinationNotDirectory ErrorCode = "DESTINATION_NOT_DIRECTORY"
	ErrAmbiguousArity          ErrorCode = "AMBIGUOUS_ARITY"

	// Path errors
	ErrUnresolvable ErrorCode = "UNRESOLVABLE"

	// Skip reasons
	ErrIsADirectory      ErrorCode = "IS_A_DIRECTORY"
	ErrDestinationExists ErrorCode = "DESTINATION_EXISTS"

	// Per-entry failures
	ErrCrossDevice  ErrorCode = "CROSS_DEVICE"
	ErrSameFile     ErrorCode = "SAME_FILE"
	ErrBackupFailed ErrorCode = "BACKUP_FAILED"
	ErrRemoveFailed ErrorCode = "REMOVE_FAILED"
	ErrLinkFailed   ErrorCode = "LINK_FAILED"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// FlnkError represents a structured error with code and details
type FlnkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FlnkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FlnkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FlnkError) Is(target error) bool {
	var targetErr *FlnkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FlnkError with the given code and message
func New(code ErrorCode, message string) *FlnkError {
	return &FlnkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FlnkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FlnkError {
	return &FlnkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FlnkError
func Wrap(err error, code ErrorCode, message string) *FlnkError {
	if err == nil {
		return nil
	}
	return &FlnkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FlnkError {
	if err == nil {
		return nil
	}
	return &FlnkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FlnkError) WithDetail(key string, value interface{}) *FlnkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var flnkErr *FlnkError
	if errors.As(err, &flnkErr) {
		return flnkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FlnkError
func GetErrorCode(err error) ErrorCode {
	var flnkErr *FlnkError
	if errors.As(err, &flnkErr) {
		return flnkErr.Code
	}
	return ErrUnknown
}

// IsPlanError reports whether err aborts a run before execution.
func IsPlanError(err error) bool {
	switch GetErrorCode(err) {
	case ErrSourceMissing, ErrDestinationNotDirectory, ErrAmbiguousArity, ErrInvalidInput, ErrUnresolvable:
		return true
	}
	return false
}

// Message renders err for people: the message chain without codes, ending
// with the bare OS error rather than the syscall and paths around it.
func Message(err error) string {
	var flnkErr *FlnkError
	if !errors.As(err, &flnkErr) {
		return cause(err)
	}
	if flnkErr.Wrapped == nil {
		return flnkErr.Message
	}
	return flnkErr.Message + ": " + Message(flnkErr.Wrapped)
}

func cause(err error) string {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err.Error()
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
