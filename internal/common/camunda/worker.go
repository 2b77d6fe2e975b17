// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"proposal-engine/internal/common/config"
	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/common/observability"
	"proposal-engine/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const (
	defaultJobTimeout  = 30 * time.Second
	commandSendTimeout = 10 * time.Second
)

// JobHandler is implemented by every task worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type RunnerOptions struct {
	Timeout       time.Duration
	Validator     *validation.Validator
	Logger        logger.Logger
	Observability *observability.Observability
}

// Runner carries the job plumbing shared by the task handlers: schema
// validation, variable decoding, execution deadline, completion or error
// reporting, and job metrics.
type Runner struct {
	taskType   string
	timeout    time.Duration
	validator  *validation.Validator
	log        logger.Logger
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
}

func NewRunner(taskType string, opts RunnerOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Runner{
		taskType:   taskType,
		timeout:    timeout,
		validator:  opts.Validator,
		log:        log,
		errHandler: errors.NewErrorHandler(log),
		obs:        opts.Observability,
	}
}

func (r *Runner) TaskType() string { return r.taskType }

// Decode checks the job variables against the registered input schema and
// unmarshals them into dst.
func (r *Runner) Decode(job entities.Job, dst interface{}) error {
	raw := job.Variables
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	if r.validator != nil {
		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			return errors.NewParseError(err)
		}
		if err := r.validator.Validate(r.taskType, vars); err != nil {
			return err
		}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}

// Process runs execute under the job deadline and returns its output.
func (r *Runner) Process(execute func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return execute(ctx)
}

// Run processes one job end to end and reports the outcome to the broker.
func (r *Runner) Run(client worker.JobClient, job entities.Job, execute func(ctx context.Context) (interface{}, error)) {
	start := time.Now()
	log := r.log.WithFields(map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	log.Info("processing job", nil)

	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	output, err := r.Process(execute)

	sendCtx, cancel := context.WithTimeout(context.Background(), commandSendTimeout)
	defer cancel()

	if err == nil {
		err = r.complete(sendCtx, client, job, output)
	}
	if err != nil {
		r.errHandler.HandleJobError(sendCtx, client, job, err)
		r.record(sendCtx, start, "failed", errors.CodeOf(err))
		return
	}

	log.Info("job completed", map[string]interface{}{"durationMs": time.Since(start).Milliseconds()})
	r.record(sendCtx, start, "completed", "")
}

func (r *Runner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
	return nil
}

func (r *Runner) record(ctx context.Context, start time.Time, status string, code errors.ErrorCode) {
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	if status == "completed" {
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	} else {
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(code)).Inc()
	}
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, status)
}

// Open starts a job worker for taskType. It returns nil when the worker is disabled.
func Open(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return jobWorker
}
