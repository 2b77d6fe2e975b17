// internal/workers/partners/select-partner/handler.go
package selectpartner

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/events"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "select-partner"
)

type Handler struct {
	config    *Config
	scorer    *partners.Scorer
	publisher events.Publisher
	runner    *camunda.Runner
	logger    logger.Logger
}

func NewHandler(config *Config, scorer *partners.Scorer, publisher events.Publisher, opts camunda.RunnerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	opts.Logger = opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	opts.Timeout = config.Timeout
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Handler{
		config:    config,
		scorer:    scorer,
		publisher: publisher,
		runner:    camunda.NewRunner(TaskType, opts),
		logger:    opts.Logger,
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

// Execute records the selection. The selection is the source of truth, so a
// failed event publish is logged and the job still completes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	sel, err := h.scorer.Select(ctx, input.RFPID, input.Category, input.CandidateID, input.Notes, input.Criteria)
	if err != nil {
		return nil, err
	}

	out := &Output{Selection: sel}
	if !h.config.PublishEvent {
		return out, nil
	}

	if err := h.publisher.PartnerSelected(ctx, *sel); err != nil {
		h.logger.Warn("failed to publish selection event", map[string]interface{}{
			"rfpId":       sel.RFPID,
			"category":    sel.Category,
			"selectionId": sel.ID,
			"error":       err.Error(),
		})
		return out, nil
	}
	out.EventPublished = true
	return out, nil
}
