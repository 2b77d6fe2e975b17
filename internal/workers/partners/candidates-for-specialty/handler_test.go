// internal/workers/partners/candidates-for-specialty/handler_test.go
package candidatesforspecialty

import (
	"context"
	"testing"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/camunda/camundatest"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/validation"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"
	"proposal-engine/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, cfg *Config) *Handler {
	t.Helper()
	return NewHandler(cfg, partners.New(rules.Default()), camunda.RunnerOptions{
		Validator: validation.NewValidator(registry.Default()),
		Logger:    logger.NewTestLogger(t),
	})
}

func ids(cs []models.SubcontractorCandidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		specialty string
		limit     int
		expected  []string
	}{
		{"by type", "electrical", 0, []string{"sub-001", "sub-002"}},
		{"by specialty substring", "security", 0, []string{"sub-005"}},
		{"case and whitespace insensitive", "  HVAC ", 0, []string{"sub-003"}},
		{"ordered by recommendation score", "it", 0, []string{"sub-005", "sub-008", "sub-006"}},
		{"limited", "it", 2, []string{"sub-005", "sub-008"}},
		{"no match", "underwater welding", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &Config{Limit: tt.limit})

			out, err := h.Execute(context.Background(), &Input{Specialty: tt.specialty})
			require.NoError(t, err)

			assert.Equal(t, tt.expected, ids(out.Candidates))
			assert.Equal(t, len(tt.expected), out.Count)
		})
	}
}

func TestHandler_Handle_EmptyResultIsAnArray(t *testing.T) {
	h := newTestHandler(t, LoadConfig())
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(71, TaskType, map[string]interface{}{"specialty": "underwater welding"}))

	var out map[string]interface{}
	require.NoError(t, client.Gateway.CompletedVariables(&out))
	assert.Equal(t, []interface{}{}, out["candidates"])
	assert.EqualValues(t, 0, out["count"])
}

func TestHandler_Handle_BlankSpecialty(t *testing.T) {
	h := newTestHandler(t, LoadConfig())
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(72, TaskType, map[string]interface{}{"specialty": ""}))

	require.Len(t, client.Gateway.Thrown(), 1)
	assert.Equal(t, "INVALID_INPUT", client.Gateway.Thrown()[0].ErrorCode)
}
