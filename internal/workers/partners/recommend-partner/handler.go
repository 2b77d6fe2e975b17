// internal/workers/partners/recommend-partner/handler.go
package recommendpartner

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-partner"
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

// Execute reports a missing recommendation as found=false, not as an error;
// the process decides whether to escalate.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	top := h.scorer.Recommend(input.Specialty)
	if top != nil {
		h.logger.Info("partner recommended", map[string]interface{}{
			"specialty":   input.Specialty,
			"candidateId": top.ID,
		})
	}
	return &Output{
		Recommended: top,
		Found:       top != nil,
	}, nil
}
