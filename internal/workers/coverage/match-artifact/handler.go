// internal/workers/coverage/match-artifact/handler.go
package matchartifact

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/documents"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/coverage"
	"proposal-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "match-artifact"
)

type Handler struct {
	config    *Config
	matcher   *coverage.Matcher
	documents documents.Source
	runner    *camunda.Runner
	logger    logger.Logger
}

// NewHandler builds the handler. source may be nil, in which case jobs must
// carry their documents.
func NewHandler(config *Config, matcher *coverage.Matcher, source documents.Source, opts camunda.RunnerOptions) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	opts.Logger = opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	opts.Timeout = config.Timeout

	return &Handler{
		config:    config,
		matcher:   matcher,
		documents: source,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	docs, err := h.snapshot(ctx, input)
	if err != nil {
		return nil, err
	}

	match := h.matcher.MatchArtifact(input.ArtifactName, docs)

	h.logger.Info("artifact matched", map[string]interface{}{
		"artifact":   input.ArtifactName,
		"matched":    match.Matched,
		"confidence": match.Confidence,
		"documents":  len(docs),
	})

	return &Output{
		CoverageMatch:       match,
		DocumentsConsidered: len(docs),
	}, nil
}

func (h *Handler) snapshot(ctx context.Context, input *Input) ([]models.DocumentRecord, error) {
	if input.Documents != nil || input.Scope == nil || h.documents == nil {
		return input.Documents, nil
	}
	return h.documents.Snapshot(ctx, *input.Scope)
}
