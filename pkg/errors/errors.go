package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a typed error code.
type ErrorCode string

const (
	// ErrorCodeMissingFile indicates the upload carried no usable file.
	ErrorCodeMissingFile ErrorCode = "MISSING_FILE"
	// ErrorCodeInvalidDocument indicates the engine could not open the bytes as a PDF.
	ErrorCodeInvalidDocument ErrorCode = "INVALID_DOCUMENT"
	// ErrorCodeNotFound indicates the filename is not in storage.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodePageOutOfRange indicates a page index outside the document.
	ErrorCodePageOutOfRange ErrorCode = "PAGE_OUT_OF_RANGE"
	// ErrorCodeIOFailure indicates a storage read or write failure.
	ErrorCodeIOFailure ErrorCode = "IO_FAILURE"
	// ErrorCodeEngineFailure is the catch-all for engine-surfaced errors.
	ErrorCodeEngineFailure ErrorCode = "ENGINE_FAILURE"
	// ErrorCodeValidation indicates a malformed request body.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// AppError represents an application error with code, message, and HTTP status.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewAppErrorWithErr creates a new application error with an underlying error.
func NewAppErrorWithErr(code ErrorCode, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// FromError converts a standard error to an AppError.
// If the error is already an AppError, it returns it as-is. Otherwise it is
// treated as an engine-surfaced failure.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewAppErrorWithErr(
		ErrorCodeEngineFailure,
		err.Error(),
		http.StatusInternalServerError,
		err,
	)
}

// Code returns the error code of err, or ErrorCodeEngineFailure for untyped errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return FromError(err).Code
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// NewMissingFileError creates an error for an absent or empty upload.
func NewMissingFileError(message string) *AppError {
	return NewAppError(ErrorCodeMissingFile, message, http.StatusBadRequest)
}

// NewInvalidDocumentError creates an error for bytes the engine cannot parse.
func NewInvalidDocumentError(message string, err error) *AppError {
	return NewAppErrorWithErr(ErrorCodeInvalidDocument, message, http.StatusInternalServerError, err)
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorCodeNotFound, message, http.StatusNotFound)
}

// NewPageOutOfRangeError creates an error for a page index outside the document.
// Served as 500, matching the original surface which exposed no finer status.
func NewPageOutOfRangeError(page, total int) *AppError {
	return NewAppError(
		ErrorCodePageOutOfRange,
		fmt.Sprintf("page %d out of range (document has %d pages)", page, total),
		http.StatusInternalServerError,
	)
}

// NewIOFailureError creates a storage failure error.
func NewIOFailureError(message string, err error) *AppError {
	return NewAppErrorWithErr(ErrorCodeIOFailure, message, http.StatusInternalServerError, err)
}

// NewEngineFailureError creates a catch-all engine error.
func NewEngineFailureError(message string, err error) *AppError {
	return NewAppErrorWithErr(ErrorCodeEngineFailure, message, http.StatusInternalServerError, err)
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorCodeValidation, message, http.StatusBadRequest)
}
