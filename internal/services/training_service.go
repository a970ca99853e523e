package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/features"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TrainRequest describes a model training job.
type TrainRequest struct {
	ModelName        string `validate:"required"`
	ModelDescription string
	ModelType        string `validate:"required"`
	// TrainingDataLocation is the S3 uri of the training file.
	TrainingDataLocation string `validate:"required"`
	// RoleArn is the role Fraud Detector assumes to read the training data.
	RoleArn       string `validate:"required"`
	EventTypeName string `validate:"required"`
	Wait          bool
}

type TrainingService interface {
	Run(ctx context.Context, req TrainRequest, variables features.FeatureVariables) (*frauddetector.GetModelVersionOutput, error)
}

type GfTrainingService struct {
	Client   fraud_detection.FraudDetectorAPI
	Utils    fraud_detection.FraudDetectorUtils
	Recorder *LifecycleRecorder
	// Out receives the ##ModelVersion## and ##ModelName## lines scraped by the build.
	Out    io.Writer
	logger *zap.Logger
}

func NewTrainingService(client fraud_detection.FraudDetectorAPI, utils fraud_detection.FraudDetectorUtils, recorder *LifecycleRecorder, logger *zap.Logger) *GfTrainingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if utils == nil {
		utils = fraud_detection.NewFraudDetectorUtils(client, nil, logger)
	}
	return &GfTrainingService{
		Client:   client,
		Utils:    utils,
		Recorder: recorder,
		Out:      os.Stdout,
		logger:   logger,
	}
}

// Run makes sure the model exists, triggers a new model version and optionally waits for
// training to complete. It returns the status of the new version.
func (ts *GfTrainingService) Run(ctx context.Context, req TrainRequest, variables features.FeatureVariables) (_ *frauddetector.GetModelVersionOutput, err error) {
	ctx, span := tracer.Start(ctx, "TrainingService.Run")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("model.id", req.ModelName))

	if err := validateRequest(req); err != nil {
		return nil, &fraud_detection.ValidationError{Subject: "train request", Err: err}
	}

	modelFeatures, err := variables.CreateOrRetrieveFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create model features: %w", err)
	}
	labelSchema, err := variables.CreateOrRetrieveLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create model labels: %w", err)
	}

	ts.logger.Info("Initialise model", zap.String("model", req.ModelName))
	if err := ts.ensureModel(ctx, req); err != nil {
		return nil, err
	}

	ts.logger.Info("Triggering training", zap.String("model", req.ModelName))
	created, err := ts.Client.CreateModelVersion(ctx, &frauddetector.CreateModelVersionInput{
		ModelId:            aws.String(req.ModelName),
		ModelType:          types.ModelTypeEnum(req.ModelType),
		TrainingDataSource: types.TrainingDataSourceEnumExternalEvents,
		TrainingDataSchema: &types.TrainingDataSchema{
			ModelVariables: modelFeatures,
			LabelSchema: &types.LabelSchema{
				LabelMapper: labelSchema,
			},
		},
		ExternalEventsDetail: &types.ExternalEventsDetail{
			DataLocation:      aws.String(req.TrainingDataLocation),
			DataAccessRoleArn: aws.String(req.RoleArn),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model version for %s: %w", req.ModelName, err)
	}
	modelVersion := aws.ToString(created.ModelVersionNumber)
	ts.logger.Info("Training job kicked off",
		zap.String("model", req.ModelName),
		zap.String("version", modelVersion),
	)

	fmt.Fprintf(ts.Out, "##ModelVersion##:%s\n", modelVersion)
	fmt.Fprintf(ts.Out, "##ModelName##:%s\n", req.ModelName)

	if req.Wait {
		err := ts.Utils.WaitUntilModelStatus(ctx, req.ModelName, modelVersion, req.ModelType,
			[]string{fraud_detection.ModelStatusError},
			[]string{fraud_detection.ModelStatusTrainingComplete})
		if err != nil {
			return nil, err
		}
	}

	status, err := ts.Client.GetModelVersion(ctx, &frauddetector.GetModelVersionInput{
		ModelId:            aws.String(req.ModelName),
		ModelType:          types.ModelTypeEnum(req.ModelType),
		ModelVersionNumber: aws.String(modelVersion),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get model version %s/%s: %w", req.ModelName, modelVersion, err)
	}

	ts.Recorder.Record(ctx, models.PipelineEvent{
		Action:       models.ActionModelTrained,
		ModelID:      req.ModelName,
		ModelVersion: modelVersion,
		Status:       aws.ToString(status.Status),
	})

	return status, nil
}

func (ts *GfTrainingService) ensureModel(ctx context.Context, req TrainRequest) error {
	existing, err := ts.Client.GetModels(ctx, &frauddetector.GetModelsInput{
		ModelId:   aws.String(req.ModelName),
		ModelType: types.ModelTypeEnum(req.ModelType),
	})
	if err != nil && !fraud_detection.IsNotFound(err) {
		return fmt.Errorf("failed to get model %s: %w", req.ModelName, err)
	}
	if err == nil && len(existing.Models) > 0 {
		ts.logger.Info("Model already exists", zap.String("model", req.ModelName))
		return nil
	}

	ts.logger.Info("Creating model", zap.String("model", req.ModelName))
	_, err = ts.Client.CreateModel(ctx, &frauddetector.CreateModelInput{
		ModelId:       aws.String(req.ModelName),
		ModelType:     types.ModelTypeEnum(req.ModelType),
		Description:   aws.String(req.ModelDescription),
		EventTypeName: aws.String(req.EventTypeName),
	})
	if err != nil {
		return fmt.Errorf("failed to create model %s: %w", req.ModelName, err)
	}
	return nil
}
