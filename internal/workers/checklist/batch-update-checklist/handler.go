// internal/workers/checklist/batch-update-checklist/handler.go
package batchupdatechecklist

import (
	"context"
	"fmt"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "batch-update-checklist"
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

// Execute applies either an explicit update list or the auto-complete-first
// flow. Both in one job is ambiguous and rejected.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AutoCompleteFirst > 0 && len(input.Updates) > 0 {
		return nil, errors.NewInvalidInputError("updates and autoCompleteFirst are mutually exclusive")
	}
	if h.config.MaxUpdates > 0 && len(input.Updates) > h.config.MaxUpdates {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("batch of %d updates exceeds the limit of %d", len(input.Updates), h.config.MaxUpdates))
	}

	var (
		progress *models.SectionProgress
		err      error
	)
	if input.AutoCompleteFirst > 0 {
		progress, err = h.engine.CompleteFirst(ctx, input.SessionID, input.SectionID, input.AutoCompleteFirst)
	} else {
		progress, err = h.engine.BatchUpdate(ctx, input.SessionID, input.SectionID, input.Updates)
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("checklist batch applied", map[string]interface{}{
		"sessionId":         input.SessionID,
		"sectionId":         input.SectionID,
		"updates":           len(input.Updates),
		"autoCompleteFirst": input.AutoCompleteFirst,
		"overallProgress":   progress.OverallProgress,
		"canProceed":        progress.CanProceed,
	})

	return &Output{
		SectionProgress: progress,
		SectionState:    checklist.SectionState(progress),
	}, nil
}
