// internal/workers/partners/score-candidate/handler.go
package scorecandidate

import (
	"context"
	"strings"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-candidate"
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

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	var candidateID string
	var breakdown partners.Breakdown
	var err error

	switch {
	case input.Candidate != nil:
		if problems := input.Candidate.Validate(); len(problems) > 0 {
			return nil, errors.NewInvalidInputError("candidate: " + strings.Join(problems, "; "))
		}
		candidateID = input.Candidate.ID
		breakdown, err = h.scorer.Score(*input.Candidate, input.Criteria)
	case input.CandidateID != "":
		c, ok := h.scorer.Candidate(input.CandidateID)
		if !ok {
			return nil, errors.NewNotFoundError("candidate", input.CandidateID)
		}
		candidateID = c.ID
		breakdown, err = h.scorer.Score(c, input.Criteria)
	default:
		return nil, errors.NewInvalidInputError("candidateId or candidate is required")
	}
	if err != nil {
		return nil, err
	}

	criteria, err := h.scorer.Criteria(input.Criteria)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("candidate scored", map[string]interface{}{
		"candidateId": candidateID,
		"score":       breakdown.Total,
	})

	return &Output{
		CandidateID: candidateID,
		Score:       breakdown.Total,
		Breakdown:   breakdown,
		Criteria:    criteria,
	}, nil
}
