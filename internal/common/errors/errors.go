// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
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
	ErrCodeInvalidProfile           ErrorCode = "INVALID_PROFILE"
	ErrCodeSurveyValidationFailed   ErrorCode = "SURVEY_VALIDATION_FAILED"
	ErrCodeProfileNotFound          ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeDimensionMismatch        ErrorCode = "DIMENSION_MISMATCH"
	ErrCodeCatalogLoadFailed        ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogSourceUnsupported ErrorCode = "CATALOG_SOURCE_UNSUPPORTED"
	ErrCodeCacheOperationFailed     ErrorCode = "CACHE_OPERATION_FAILED"

	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is works across the wrapper.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
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

func NewInvalidProfileError(details string) *StandardError {
	return newError(ErrCodeInvalidProfile, "Traveler profile is invalid", details, false, nil)
}

// NewSurveyValidationFailedError lists every schema violation in Details.
func NewSurveyValidationFailedError(violations []string) *StandardError {
	return newError(ErrCodeSurveyValidationFailed, "Survey answers failed validation",
		strings.Join(violations, "; "), false, nil).
		WithMetadata("violations", violations)
}

func NewProfileNotFoundError(profileID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Traveler profile not found",
		fmt.Sprintf("profileId: %s", profileID), false, nil)
}

// NewDimensionMismatchError marks a catalog or vectorization defect. Never retried.
func NewDimensionMismatchError(destinationID string, err error) *StandardError {
	return newError(ErrCodeDimensionMismatch, "Profile and destination vectors differ in length",
		fmt.Sprintf("destinationId: %s, error: %s", destinationID, err.Error()), false, err)
}

func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Destination catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true, err)
}

func NewCatalogSourceUnsupportedError(source string) *StandardError {
	return newError(ErrCodeCatalogSourceUnsupported, "Unsupported catalog source",
		fmt.Sprintf("source: %s", source), false, nil)
}

func NewCacheOperationFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeCacheOperationFailed, "Cache operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service),
		err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service),
		err.Error(), true, err)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service),
		details, false, nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Mapping & Retry Policy
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidProfile:           "INVALID_PROFILE",
	ErrCodeSurveyValidationFailed:   "SURVEY_VALIDATION_FAILED",
	ErrCodeProfileNotFound:          "PROFILE_NOT_FOUND",
	ErrCodeDimensionMismatch:        "DIMENSION_MISMATCH",
	ErrCodeCatalogLoadFailed:        "CATALOG_LOAD_FAILED",
	ErrCodeCatalogSourceUnsupported: "CATALOG_SOURCE_UNSUPPORTED",
	ErrCodeCacheOperationFailed:     "CACHE_OPERATION_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeCacheOperationFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // business and data-integrity errors
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "SURVEY"):
		return "PROFILE"
	case strings.Contains(codeStr, "DIMENSION"):
		return "DATA_INTEGRITY"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
