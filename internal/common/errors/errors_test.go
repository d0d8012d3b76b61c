package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_RetryableFlags(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"invalid profile", NewInvalidProfileError("age missing"), ErrCodeInvalidProfile, false},
		{"survey validation", NewSurveyValidationFailedError([]string{"age: too small"}), ErrCodeSurveyValidationFailed, false},
		{"profile not found", NewProfileNotFoundError("user_1"), ErrCodeProfileNotFound, false},
		{"dimension mismatch", NewDimensionMismatchError("bali", cause), ErrCodeDimensionMismatch, false},
		{"catalog load", NewCatalogLoadFailedError("postgres", cause), ErrCodeCatalogLoadFailed, true},
		{"unsupported source", NewCatalogSourceUnsupportedError("s3"), ErrCodeCatalogSourceUnsupported, false},
		{"cache", NewCacheOperationFailedError("get", cause), ErrCodeCacheOperationFailed, true},
		{"external", NewExternalServiceError("zeebe", cause), ErrCodeExternalService, true},
		{"timeout", NewTimeoutError("zeebe", cause), ErrCodeTimeout, true},
		{"not found", NewResourceNotFoundError("zeebe", "job"), ErrCodeResourceNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	sentinel := stderrors.New("vector dimension mismatch")
	wrapped := fmt.Errorf("%w: profile=7 destination=6", sentinel)

	err := NewDimensionMismatchError("kyoto", wrapped)
	assert.True(t, stderrors.Is(err, sentinel))

	var stdErr *StandardError
	require.True(t, stderrors.As(fmt.Errorf("rank: %w", err), &stdErr))
	assert.Equal(t, ErrCodeDimensionMismatch, stdErr.Code)
}

func TestSurveyValidationFailedError_Metadata(t *testing.T) {
	err := NewSurveyValidationFailedError([]string{"age: must be >= 18", "climate: expected array"})
	assert.Equal(t, "age: must be >= 18; climate: expected array", err.Details)
	assert.Len(t, err.Metadata["violations"], 2)
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable catalog failure keeps retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewCatalogLoadFailedError("file", stderrors.New("no such file")))
		assert.Equal(t, "CATALOG_LOAD_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "CATALOG_LOAD_FAILED", vars["errorCode"])
		assert.Equal(t, "CATALOG_LOAD_FAILED", vars["originalErrorCode"])
		assert.NotEmpty(t, vars["timestamp"])
	})

	t.Run("unmapped code falls back to raw code", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewTimeoutError("redis", stderrors.New("i/o timeout")))
		assert.Equal(t, "TIMEOUT_ERROR", bpmn.Code)
		assert.Equal(t, 2, bpmn.Retries)
	})

	t.Run("non-retryable never carries retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewDimensionMismatchError("x", stderrors.New("7 != 6")))
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)
	})
}

func TestNormalize(t *testing.T) {
	std := NewProfileNotFoundError("user_9")
	assert.Same(t, std, Normalize(fmt.Errorf("lookup: %w", std)))

	plain := Normalize(stderrors.New("kaboom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "kaboom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRetriesFor(t *testing.T) {
	catalog := NewCatalogLoadFailedError("es", stderrors.New("503"))

	assert.Equal(t, 3, RetriesFor(catalog, 5))
	assert.Equal(t, 1, RetriesFor(catalog, 1))
	assert.Equal(t, 0, RetriesFor(catalog, 0))
	assert.Equal(t, 0, RetriesFor(NewInvalidProfileError("x"), 5))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileNotFound))
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeSurveyValidationFailed))
	assert.Equal(t, "DATA_INTEGRITY", GetErrorCategory(ErrCodeDimensionMismatch))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCatalogLoadFailed))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheOperationFailed))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeCatalogLoadFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeDimensionMismatch))
}
