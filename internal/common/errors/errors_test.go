// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"invalid input", NewInvalidInputError("sectionId is required"), ErrCodeInvalidInput, false},
		{"parse", NewParseError(fmt.Errorf("unexpected EOF")), ErrCodeParseError, false},
		{"not found", NewNotFoundError("candidate", "sub-999"), ErrCodeNotFound, false},
		{"invalid weight", NewInvalidWeightError("price=-5"), ErrCodeInvalidWeight, false},
		{"dependencies", NewDependenciesUnmetError("b", []string{"a"}), ErrCodeDependenciesUnmet, false},
		{"state store", NewStateStoreError("load", fmt.Errorf("conn refused")), ErrCodeStateStoreFailed, true},
		{"selection store", NewSelectionStoreError("save", fmt.Errorf("deadlock")), ErrCodeSelectionStoreFailed, true},
		{"documents", NewDocumentSourceError(fmt.Errorf("503")), ErrCodeDocumentSourceFailed, true},
		{"internal", NewInternalError(fmt.Errorf("nil map")), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestCodeOfAndIsRetryable(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	wrapped := fmt.Errorf("update section: %w", NewStateStoreError("update", cause))

	assert.Equal(t, ErrCodeStateStoreFailed, CodeOf(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.True(t, stderrors.Is(wrapped, &StandardError{Code: ErrCodeStateStoreFailed}))

	plain := fmt.Errorf("plain")
	assert.Equal(t, ErrCodeInternal, CodeOf(plain))
	assert.False(t, IsRetryable(plain))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewDependenciesUnmetError("draft", []string{"outline", "research"}))
	assert.Equal(t, "DEPENDENCIES_UNMET", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "DEPENDENCIES_UNMET", vars["errorCode"])
	assert.Equal(t, []string{"outline", "research"}, vars["blockedBy"])
	assert.Equal(t, false, vars["retryable"])

	retryable := ConvertToBPMNError(NewDocumentSourceError(fmt.Errorf("timeout")))
	assert.Equal(t, 3, retryable.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeSelectionStoreFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeDocumentSourceFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidWeight))
	assert.Equal(t, "BUSINESS_RULE", GetErrorCategory(ErrCodeNotFound))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}
	assert.Equal(t, int32(3), remainingRetries(job(5), 3))
	assert.Equal(t, int32(1), remainingRetries(job(2), 3))
	assert.Equal(t, int32(0), remainingRetries(job(1), 3))
}

func TestAsStandard_PassesThrough(t *testing.T) {
	orig := NewNotFoundError("candidate", "x")
	require.Same(t, orig, AsStandard(orig))
	assert.Nil(t, AsStandard(nil))
}
