// internal/workers/checklist/initialize-section/handler_test.go
package initializesection

import (
	"context"
	"testing"
	"time"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/camunda/camundatest"
	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/validation"
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"
	"proposal-engine/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type failingStore struct{}

func (failingStore) Load(context.Context, checklist.Key) (*models.SectionProgress, error) {
	return nil, errors.NewStateStoreError("load", context.DeadlineExceeded)
}

func (failingStore) Update(context.Context, checklist.Key, checklist.UpdateFunc) (*models.SectionProgress, error) {
	return nil, errors.NewStateStoreError("update", context.DeadlineExceeded)
}

func newTestHandler(t *testing.T, opts ...checklist.Option) *Handler {
	t.Helper()
	engine := checklist.New(rules.Default(), opts...)
	return NewHandler(LoadConfig(), engine, camunda.RunnerOptions{
		Validator: validation.NewValidator(registry.Default()),
		Logger:    logger.NewTestLogger(t),
	})
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		sectionID    string
		templateID   string
		items        int
		expectedFall bool
	}{
		{"known section", "compliance", "compliance", 5, false},
		{"unknown section uses the default template", "executive-summary", rules.DefaultSectionID, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			out, err := h.Execute(context.Background(), &Input{SessionID: "s-1", SectionID: tt.sectionID})
			require.NoError(t, err)

			assert.Equal(t, tt.sectionID, out.SectionProgress.SectionID)
			assert.Equal(t, tt.templateID, out.SectionProgress.TemplateID)
			assert.Len(t, out.SectionProgress.Items, tt.items)
			assert.Equal(t, tt.expectedFall, out.SectionProgress.Fallback)
			assert.Equal(t, checklist.SectionAvailable, out.SectionState)
		})
	}
}

func TestHandler_Execute_KeepsExistingProgress(t *testing.T) {
	engine := checklist.New(rules.Default())
	h := NewHandler(LoadConfig(), engine, camunda.RunnerOptions{Logger: logger.NewTestLogger(t)})
	ctx := context.Background()

	_, err := engine.UpdateChecklistItem(ctx, "s-1", "compliance", "upload-coi", true)
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{SessionID: "s-1", SectionID: "compliance"})
	require.NoError(t, err)
	assert.True(t, out.SectionProgress.Items[0].Completed)
	assert.Equal(t, checklist.SectionInProgress, out.SectionState)
}

// ==========================
// Handle Tests
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	h := newTestHandler(t)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(11, TaskType, map[string]interface{}{
		"sessionId": "s-1",
		"sectionId": "pricing",
	}))

	var out Output
	require.NoError(t, client.Gateway.CompletedVariables(&out))
	assert.Equal(t, "pricing", out.SectionProgress.SectionID)
	assert.Equal(t, 0, out.SectionProgress.OverallProgress)
	assert.Equal(t, checklist.SectionAvailable, out.SectionState)
	assert.Empty(t, client.Gateway.Thrown())
}

func TestHandler_Handle_InvalidInput(t *testing.T) {
	h := newTestHandler(t)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(12, TaskType, map[string]interface{}{"sessionId": "s-1"}))

	require.Len(t, client.Gateway.Thrown(), 1)
	assert.Equal(t, "INVALID_INPUT", client.Gateway.Thrown()[0].ErrorCode)
	assert.Empty(t, client.Gateway.Completed())
}

func TestHandler_Handle_StoreFailureIsRetried(t *testing.T) {
	h := newTestHandler(t, checklist.WithStore(failingStore{}))
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(13, TaskType, map[string]interface{}{
		"sessionId": "s-1",
		"sectionId": "pricing",
	}))

	require.Len(t, client.Gateway.Failed(), 1)
	assert.Equal(t, int32(2), client.Gateway.Failed()[0].Retries)
	assert.Empty(t, client.Gateway.Thrown())
}

func TestNewHandler_UsesConfiguredTimeout(t *testing.T) {
	cfg := &Config{Timeout: 50 * time.Millisecond}
	h := NewHandler(cfg, checklist.New(rules.Default()), camunda.RunnerOptions{})

	assert.Equal(t, TaskType, h.runner.TaskType())
	assert.Equal(t, cfg, h.config)
}
