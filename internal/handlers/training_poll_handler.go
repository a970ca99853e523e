package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/messaging"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/observability"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-xray-sdk-go/xray"
	"go.uber.org/zap"
)

// TrainingTypeFraudDetector is the training_type handled by the Fraud Detector poller.
const TrainingTypeFraudDetector = "frauddetector"

var ErrNotCodePipelineJob = errors.New("this function is meant to be invoked by CodePipeline only")

type TrainingPollHandler interface {
	HandleCodePipelineJob(ctx context.Context, event events.CodePipelineJobEvent) error
}

// GfTrainingPollHandler lets a CodePipeline action wait for a training job. The first
// invocation echoes the user parameters back as the continuation token; every later
// invocation checks the job once and either completes, fails or re-echoes the token.
type GfTrainingPollHandler struct {
	Reporter messaging.JobReporter
	Pollers  map[string]fraud_detection.TrainingStatusPoller
	logger   *zap.Logger
}

func NewTrainingPollHandler(reporter messaging.JobReporter, pollers map[string]fraud_detection.TrainingStatusPoller, logger *zap.Logger) *GfTrainingPollHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GfTrainingPollHandler{
		Reporter: reporter,
		Pollers:  pollers,
		logger:   logger,
	}
}

// HandleCodePipelineJob only returns an error when the event is not a CodePipeline job or
// when the result cannot be reported. Job failures are reported to CodePipeline.
func (h *GfTrainingPollHandler) HandleCodePipelineJob(ctx context.Context, event events.CodePipelineJobEvent) error {
	job := event.CodePipelineJob
	if job.ID == "" {
		return ErrNotCodePipelineJob
	}

	ctx, seg := xray.BeginSegment(ctx, "TrainingPollHandler")
	defer seg.Close(nil)
	observability.SafeAddAnnotation(h.logger, ctx, observability.KeyJobID, job.ID)
	observability.SafeAddMetadata(h.logger, seg, observability.KeyContinuation, job.Data.ContinuationToken != "")

	var err error
	if job.Data.ContinuationToken != "" {
		err = h.updatePollStatus(ctx, seg, job.ID, job.Data.ContinuationToken)
	} else {
		err = h.putContinuationToken(ctx, seg, job.ID, job.Data.ActionConfiguration.Configuration.UserParameters)
	}
	if err == nil {
		return nil
	}

	observability.SafeAddError(h.logger, seg, err)
	observability.SafeAddMetadata(h.logger, seg, observability.KeyJobOutcome, "failed")
	h.logger.Error("Training job poll failed", zap.String("job_id", job.ID), zap.Error(err))

	message := fmt.Sprintf("Training job failed. Reason: %v", err)
	return h.Reporter.ReportFailure(ctx, job.ID, message)
}

func (h *GfTrainingPollHandler) putContinuationToken(ctx context.Context, seg *xray.Segment, jobID, userParameters string) error {
	params, err := models.UnmarshalJobParameters(userParameters)
	if err != nil {
		return err
	}
	if params.TrainingType == "" {
		h.logger.Warn("No training_type in CodePipeline parameters", zap.String("user_parameters", userParameters))
		return errors.New(`unable to check job: no "training_type" in CodePipeline parameters`)
	}
	observability.SafeAddMetadata(h.logger, seg, observability.KeyTrainingType, params.TrainingType)

	h.logger.Info("Start polling training job",
		zap.String("job_id", jobID),
		zap.String("training_type", params.TrainingType),
	)
	return h.Reporter.ReportSuccess(ctx, jobID, userParameters)
}

func (h *GfTrainingPollHandler) updatePollStatus(ctx context.Context, seg *xray.Segment, jobID, continuationToken string) error {
	params, err := models.UnmarshalJobParameters(continuationToken)
	if err != nil {
		return err
	}
	observability.SafeAddAnnotation(h.logger, ctx, observability.KeyTrainingType, params.TrainingType)

	poller, ok := h.Pollers[params.TrainingType]
	if !ok {
		return fmt.Errorf("the training type must be in %v, got %q", h.trainingTypes(), params.TrainingType)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid job parameters: %w", err)
	}
	observability.SafeAddMetadata(h.logger, seg, observability.KeyTrainingJobName, params.TrainingJobName)
	observability.SafeAddMetadata(h.logger, seg, observability.KeyModelVersion, params.TrainingJobVersion)

	complete, err := poller.CheckTrainingStatus(ctx, *params)
	if err != nil {
		var failure *fraud_detection.TerminalFailure
		if errors.As(err, &failure) {
			observability.SafeAddMetadata(h.logger, seg, observability.KeyModelStatus, failure.Status)
		}
		return fmt.Errorf("training job %s: %w", params.TrainingJobName, err)
	}

	if complete {
		observability.SafeAddMetadata(h.logger, seg, observability.KeyModelStatus, fraud_detection.ModelStatusTrainingComplete)
		observability.SafeAddMetadata(h.logger, seg, observability.KeyJobOutcome, "complete")
		h.logger.Info("Training job complete", zap.String("job_id", jobID), zap.String("model", params.TrainingJobName))
		return h.Reporter.ReportSuccess(ctx, jobID, "")
	}

	observability.SafeAddMetadata(h.logger, seg, observability.KeyJobOutcome, "in_progress")
	return h.Reporter.ReportSuccess(ctx, jobID, continuationToken)
}

func (h *GfTrainingPollHandler) trainingTypes() []string {
	types := make([]string, 0, len(h.Pollers))
	for t := range h.Pollers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
