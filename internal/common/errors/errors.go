// Package errors provides standardized error handling for BPMN workflow integration.
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
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeInvalidWeight     ErrorCode = "INVALID_WEIGHT"
	ErrCodeDependenciesUnmet ErrorCode = "DEPENDENCIES_UNMET"

	ErrCodeStateStoreFailed     ErrorCode = "STATE_STORE_FAILED"
	ErrCodeSelectionStoreFailed ErrorCode = "SELECTION_STORE_FAILED"
	ErrCodeDocumentSourceFailed ErrorCode = "DOCUMENT_SOURCE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError by code, so errors.Is(err, &StandardError{Code: ...}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

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

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidInputError reports job variables that failed schema or field validation.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false, nil)
}

// NewParseError reports variables that could not be decoded into the task input.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", errDetails(err), false, err)
}

func NewNotFoundError(kind, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", kind), id, false, nil).
		WithMetadata("kind", kind)
}

// NewInvalidWeightError reports selection criteria with negative or zero-sum weights.
func NewInvalidWeightError(details string) *StandardError {
	return newError(ErrCodeInvalidWeight, "Invalid selection criteria weights", details, false, nil)
}

func NewDependenciesUnmetError(itemID string, blockedBy []string) *StandardError {
	return newError(ErrCodeDependenciesUnmet, "Item dependencies are not completed",
		fmt.Sprintf("item %s blocked by %s", itemID, strings.Join(blockedBy, ", ")), false, nil).
		WithMetadata("blockedBy", blockedBy)
}

func NewStateStoreError(op string, err error) *StandardError {
	return newError(ErrCodeStateStoreFailed, "Checklist state store "+op+" failed", errDetails(err), true, err)
}

func NewSelectionStoreError(op string, err error) *StandardError {
	return newError(ErrCodeSelectionStoreFailed, "Selection store "+op+" failed", errDetails(err), true, err)
}

func NewDocumentSourceError(err error) *StandardError {
	return newError(ErrCodeDocumentSourceFailed, "Failed to read document snapshot", errDetails(err), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false, err)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes catchable in process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:         "INVALID_INPUT",
	ErrCodeParseError:           "PARSE_ERROR",
	ErrCodeNotFound:             "NOT_FOUND",
	ErrCodeInvalidWeight:        "INVALID_WEIGHT",
	ErrCodeDependenciesUnmet:    "DEPENDENCIES_UNMET",
	ErrCodeStateStoreFailed:     "STATE_STORE_FAILED",
	ErrCodeSelectionStoreFailed: "SELECTION_STORE_FAILED",
	ErrCodeDocumentSourceFailed: "DOCUMENT_SOURCE_FAILED",
	ErrCodeInternal:             "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStateStoreFailed,
		ErrCodeSelectionStoreFailed,
		ErrCodeDocumentSourceFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard unwraps err to a StandardError, wrapping anything else as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the code carried by err, or "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsStandard(err).Code
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Retryable
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STORE"):
		return "STORAGE"
	case strings.Contains(codeStr, "DOCUMENT_SOURCE"):
		return "SEARCH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case code == ErrCodeNotFound || code == ErrCodeDependenciesUnmet:
		return "BUSINESS_RULE"
	default:
		return "OTHER"
	}
}
