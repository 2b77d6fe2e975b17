// internal/workers/partners/recommend-partner/handler_test.go
package recommendpartner

import (
	"context"
	"testing"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/camunda/camundatest"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/common/validation"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/pkg/registry"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), partners.New(rules.Default()), camunda.RunnerOptions{
		Validator: validation.NewValidator(registry.Default()),
		Logger:    logger.NewTestLogger(t),
	})
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		specialty string
		found     bool
		expected  string
	}{
		{"electrical", "electrical", true, "sub-001"},
		{"it picks the highest static score", "it", true, "sub-005"},
		{"specialty substring", "remediation", true, "sub-007"},
		{"nothing in the pool", "underwater welding", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			out, err := h.Execute(context.Background(), &Input{Specialty: tt.specialty})
			require.NoError(t, err)

			assert.Equal(t, tt.found, out.Found)
			if !tt.found {
				assert.Nil(t, out.Recommended)
				return
			}
			require.NotNil(t, out.Recommended)
			assert.Equal(t, tt.expected, out.Recommended.ID)
		})
	}
}

func TestHandler_Execute_RecordsMetric(t *testing.T) {
	h := newTestHandler(t)
	counter := metrics.PartnerRecommendations.WithLabelValues("plumbing", "true")
	before := testutil.ToFloat64(counter)

	_, err := h.Execute(context.Background(), &Input{Specialty: "Plumbing"})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandler_Handle_NotFoundCompletesWithNull(t *testing.T) {
	h := newTestHandler(t)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(91, TaskType, map[string]interface{}{"specialty": "underwater welding"}))

	var out map[string]interface{}
	require.NoError(t, client.Gateway.CompletedVariables(&out))
	assert.Contains(t, out, "recommended")
	assert.Nil(t, out["recommended"])
	assert.Equal(t, false, out["found"])
	assert.Empty(t, client.Gateway.Thrown())
}
