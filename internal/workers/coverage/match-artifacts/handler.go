// internal/workers/coverage/match-artifacts/handler.go
package matchartifacts

import (
	"context"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/documents"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/coverage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "match-artifacts"
)

type Handler struct {
	config    *Config
	matcher   *coverage.Matcher
	documents documents.Source
	runner    *camunda.Runner
	logger    logger.Logger
}

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

// Execute reads the document snapshot once and matches every artifact against it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	docs := input.Documents
	if docs == nil && input.Scope != nil && h.documents != nil {
		var err error
		if docs, err = h.documents.Snapshot(ctx, *input.Scope); err != nil {
			return nil, err
		}
	}

	matches := h.matcher.MatchArtifacts(input.ArtifactNames, docs)

	out := &Output{
		CoverageMatches:     matches,
		MissingArtifacts:    []string{},
		DocumentsConsidered: len(docs),
	}
	for _, m := range matches {
		if m.Matched {
			out.CoveredCount++
		} else {
			out.MissingArtifacts = append(out.MissingArtifacts, m.Artifact)
		}
	}

	h.logger.Info("artifacts matched", map[string]interface{}{
		"artifacts": len(input.ArtifactNames),
		"covered":   out.CoveredCount,
		"documents": len(docs),
	})
	return out, nil
}
