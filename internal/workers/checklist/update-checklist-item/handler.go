// internal/workers/checklist/update-checklist-item/handler.go
package updatechecklistitem

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/checklist"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-checklist-item"
)

type Handler struct {
	config *Config
	engine *checklist.Engine
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, engine *checklist.Engine, opts camunda.RunnerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	opts.Logger = opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	opts.Timeout = config.Timeout

	return &Handler{
		config: config,
		engine: engine,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	progress, err := h.engine.UpdateChecklistItem(ctx, input.SessionID, input.SectionID, input.ItemID, input.Completed)
	if err != nil {
		return nil, err
	}

	h.logger.Info("checklist item updated", map[string]interface{}{
		"sessionId":       input.SessionID,
		"sectionId":       input.SectionID,
		"itemId":          input.ItemID,
		"completed":       input.Completed,
		"overallProgress": progress.OverallProgress,
		"canProceed":      progress.CanProceed,
	})

	return &Output{
		SectionProgress: progress,
		SectionState:    checklist.SectionState(progress),
	}, nil
}
