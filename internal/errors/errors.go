package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether the outermost AppError in the chain carries code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Predefined error codes
const (
	CodeSourceUnreadable   = "SOURCE_UNREADABLE"
	CodeDocumentUnreadable = "DOCUMENT_UNREADABLE"
	CodeTableNotFound      = "TABLE_NOT_FOUND"
	CodeStoreWriteFailure  = "STORE_WRITE_FAILURE"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Common error constructors

// SourceUnreadable marks a document that cannot be parsed as its declared type
func SourceUnreadable(message string, cause error) *AppError {
	return &AppError{Code: CodeSourceUnreadable, Message: message, Cause: cause}
}

// DocumentUnreadable marks a PDF that cannot be opened at all
func DocumentUnreadable(message string, cause error) *AppError {
	return &AppError{Code: CodeDocumentUnreadable, Message: message, Cause: cause}
}

// TableNotFound marks a preview request for a table absent from the store
func TableNotFound(tableName string) *AppError {
	return New(CodeTableNotFound, fmt.Sprintf("table %q not found", tableName))
}

// StoreWriteFailure marks a disk or permission error during materialization
func StoreWriteFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeStoreWriteFailure, Message: message, Cause: cause}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
