// Package errors provides the structured error types shared by the data store,
// the generator and the job worker.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Data file could not be read or parsed as structured text.
	ErrCodeDataResource ErrorCode = "DATA_RESOURCE_ERROR"
	// Data file parsed but does not match the schema.
	ErrCodeDataValidationFailed ErrorCode = "DATA_VALIDATION_FAILED"

	ErrCodeEmptyData     ErrorCode = "EMPTY_DATA"
	ErrCodeTooManyImages ErrorCode = "TOO_MANY_IMAGES"

	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	// Job ran out of time before a take was produced. Retryable.
	ErrCodeJobTimeout ErrorCode = "JOB_TIMEOUT"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a StandardError with the same code, so the
// sentinels below work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrDataResource  = &StandardError{Code: ErrCodeDataResource}
	ErrValidation    = &StandardError{Code: ErrCodeDataValidationFailed}
	ErrEmptyData     = &StandardError{Code: ErrCodeEmptyData}
	ErrTooManyImages = &StandardError{Code: ErrCodeTooManyImages}
	ErrJobTimeout    = &StandardError{Code: ErrCodeJobTimeout}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewResourceError reports a data file that cannot be read or parsed.
func NewResourceError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataResource,
		Message:   "Hot take data could not be read",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationError reports every schema violation found in the data file.
func NewValidationError(problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataValidationFailed,
		Message:   "Hot take data failed schema validation",
		Details:   strings.Join(problems, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": len(problems)},
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyDataError reports that there is nothing to pick from.
func NewEmptyDataError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyData,
		Message:   "No candidates available",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTooManyImagesError reports a take that accumulated more images than a post allows.
func NewTooManyImagesError(count, max int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTooManyImages,
		Message:   "Generated take has too many images",
		Details:   fmt.Sprintf("got %d images, at most %d allowed", count, max),
		Retryable: false,
		Metadata:  map[string]interface{}{"count": count, "max": max},
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingError reports job variables that could not be decoded.
func NewInputParsingError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewJobTimeoutError reports a job whose deadline passed before work finished.
func NewJobTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobTimeout,
		Message:   "Job deadline exceeded",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDataResource:         "DATA_RESOURCE_ERROR",
	ErrCodeDataValidationFailed: "DATA_VALIDATION_FAILED",
	ErrCodeEmptyData:            "EMPTY_DATA",
	ErrCodeTooManyImages:        "TOO_MANY_IMAGES",
	ErrCodeInputParsingFailed:   "INPUT_PARSING_FAILED",
	ErrCodeJobTimeout:           "JOB_TIMEOUT",
	ErrCodeInternal:             "INTERNAL_ERROR",
}

// DefaultRetries is how many attempts a retryable job failure is given.
const DefaultRetries = 3

// GetRetryCount returns the recommended retry count for an error.
func GetRetryCount(stdErr *StandardError) int {
	if stdErr.Retryable {
		return DefaultRetries
	}
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	vars := map[string]interface{}{
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if !stdErr.Timestamp.IsZero() {
		vars["errorTimestamp"] = stdErr.Timestamp.Format(time.RFC3339)
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr),
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError normalizes any error to a StandardError. Unknown errors become
// INTERNAL_ERROR with their text as details.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	return AsStandardError(err).Code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeDataResource, ErrCodeDataValidationFailed:
		return "DATA"
	case ErrCodeEmptyData, ErrCodeTooManyImages:
		return "GENERATION"
	case ErrCodeInputParsingFailed:
		return "INPUT"
	case ErrCodeJobTimeout:
		return "WORKER"
	default:
		return "INTERNAL"
	}
}
