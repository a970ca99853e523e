package fraud_detection

import (
	"context"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"go.uber.org/zap"
)

// TrainingStatusPoller checks a training job once without waiting.
type TrainingStatusPoller interface {
	// CheckTrainingStatus reports whether the job has completed. A failed job is
	// returned as a *TerminalFailure.
	CheckTrainingStatus(ctx context.Context, params models.TrainingJobParameters) (bool, error)
}

// ClientFactory builds a client acting as the given role.
type ClientFactory func(ctx context.Context, roleArn string) (FraudDetectorAPI, error)

type GfTrainingStatusPoller struct {
	NewClient ClientFactory
	logger    *zap.Logger
}

func NewTrainingStatusPoller(newClient ClientFactory, logger *zap.Logger) *GfTrainingStatusPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GfTrainingStatusPoller{NewClient: newClient, logger: logger}
}

func (p *GfTrainingStatusPoller) CheckTrainingStatus(ctx context.Context, params models.TrainingJobParameters) (bool, error) {
	client, err := p.NewClient(ctx, params.AssumeRole)
	if err != nil {
		return false, fmt.Errorf("failed to create client for role %s: %w", params.AssumeRole, err)
	}

	modelType := params.ModelType
	if modelType == "" {
		modelType = models.ModelTypeOnlineFraudInsights
	}

	resp, err := client.GetModelVersion(ctx, &frauddetector.GetModelVersionInput{
		ModelId:            aws.String(params.TrainingJobName),
		ModelType:          types.ModelTypeEnum(modelType),
		ModelVersionNumber: aws.String(params.TrainingJobVersion),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get model version %s/%s: %w", params.TrainingJobName, params.TrainingJobVersion, err)
	}

	status := aws.ToString(resp.Status)
	p.logger.Info("Training job status",
		zap.String("model", params.TrainingJobName),
		zap.String("version", params.TrainingJobVersion),
		zap.String("status", status),
	)

	switch status {
	case ModelStatusTrainingComplete:
		return true, nil
	case ModelStatusError:
		return false, &TerminalFailure{Status: status, Response: resp}
	default:
		return false, nil
	}
}
