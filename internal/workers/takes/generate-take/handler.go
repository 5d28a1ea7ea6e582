// internal/workers/takes/generate-take/handler.go
package generatetake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bristermitten/hot-takes/internal/common/config"
	"github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/common/logger"
	"github.com/bristermitten/hot-takes/internal/common/metrics"
	"github.com/bristermitten/hot-takes/internal/common/observability"
	"github.com/bristermitten/hot-takes/internal/models"
)

const TaskType = "hot-take.generate"

// TakeGenerator is the part of the generator the worker needs.
type TakeGenerator interface {
	Generate(extra []string) (*models.HotTakeResult, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	generator    TakeGenerator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Generator     TakeGenerator
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = createConfigFromAppConfig(opts.AppConfig)
	}
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", config.GenerateTakeWorker, err)
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:       workerConfig,
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
		generator:    opts.Generator,
		errorHandler: errors.NewErrorHandler(log, workerConfig.MaxRetries),
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing hot take job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute generates one take. It records metrics for every call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		timeoutErr := errors.NewJobTimeoutError(err)
		metrics.RecordTake(metrics.SurfaceWorker, nil, timeoutErr, 0)
		h.obs.RecordTake(ctx, metrics.SurfaceWorker, string(timeoutErr.Code))
		return nil, timeoutErr
	}

	start := time.Now()
	result, err := h.generator.Generate(input.Extra)
	elapsed := time.Since(start)

	metrics.RecordTake(metrics.SurfaceWorker, result, err, elapsed)
	h.obs.RecordDuration(ctx, elapsed, metrics.SurfaceWorker)
	if err != nil {
		h.obs.RecordTake(ctx, metrics.SurfaceWorker, string(errors.CodeOf(err)))
		return nil, err
	}
	h.obs.RecordTake(ctx, metrics.SurfaceWorker, "success")

	images := result.Images
	if images == nil {
		images = []string{}
	}
	return &Output{Take: result.Take, Images: images}, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	raw := strings.TrimSpace(job.GetVariables())
	if raw == "" {
		return &Input{}, nil
	}

	result, err := gojsonschema.Validate(inputSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return nil, errors.NewInputParsingError(fmt.Errorf("%s", strings.Join(problems, "; ")))
	}

	var input Input
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(output.Variables())
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Completed hot take job", map[string]interface{}{
		"jobKey": job.GetKey(),
		"images": len(output.Images),
	})
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

// RemainingRetries is what the engine is told when a job fails with err.
func (h *Handler) RemainingRetries(err error, jobRetries int32) int {
	return h.errorHandler.RemainingRetries(errors.AsStandardError(err), jobRetries)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
