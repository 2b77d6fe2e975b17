// internal/workers/partners/candidates-for-specialty/handler.go
package candidatesforspecialty

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "candidates-for-specialty"
)

type Handler struct {
	config *Config
	scorer *partners.Scorer
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, scorer *partners.Scorer, opts camunda.RunnerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	opts.Logger = opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	opts.Timeout = config.Timeout

	return &Handler{
		config: config,
		scorer: scorer,
		runner: camunda.NewRunner(TaskType, opts),
		logger: opts.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		var input Input
		if err := h.runner.Decode(job, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

// Execute never returns a nil list so the process variable is always an array.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	candidates := h.scorer.CandidatesForSpecialty(input.Specialty)
	if candidates == nil {
		candidates = []models.SubcontractorCandidate{}
	}
	if h.config.Limit > 0 && len(candidates) > h.config.Limit {
		candidates = candidates[:h.config.Limit]
	}

	return &Output{
		Candidates: candidates,
		Count:      len(candidates),
	}, nil
}
