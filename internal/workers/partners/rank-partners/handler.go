// internal/workers/partners/rank-partners/handler.go
package rankpartners

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-partners"
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
	var (
		ranked []partners.Ranked
		err    error
	)
	switch {
	case len(input.CandidateIDs) > 0:
		ranked, err = h.scorer.Compare(input.CandidateIDs, input.Criteria)
	case input.Specialty != "":
		ranked, err = h.scorer.Rank(input.Specialty, input.Criteria)
	default:
		return nil, errors.NewInvalidInputError("specialty or candidateIds is required")
	}
	if err != nil {
		return nil, err
	}

	out := &Output{Ranked: ranked}
	if len(ranked) > 0 {
		out.TopCandidateID = ranked[0].Candidate.ID
	}

	h.logger.Info("partners ranked", map[string]interface{}{
		"specialty":  input.Specialty,
		"candidates": len(ranked),
		"top":        out.TopCandidateID,
	})
	return out, nil
}
