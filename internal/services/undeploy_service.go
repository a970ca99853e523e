package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// UndeploySuccessStates are the statuses that end the wait after a model version is set to
// INACTIVE. TRAINING_COMPLETE is what the service reports for a deactivated version; INACTIVE
// is accepted as well.
var UndeploySuccessStates = []string{
	fraud_detection.ModelStatusTrainingComplete,
	fraud_detection.ModelStatusInactive,
}

type UndeployService interface {
	DeleteDetector(ctx context.Context, detectorID string) error
	UndeployModel(ctx context.Context, modelID, modelVersion, modelType string) error
	Undeploy(ctx context.Context, detectorID, modelID, modelVersion string) error
}

type GfUndeployService struct {
	Client   fraud_detection.FraudDetectorAPI
	Utils    fraud_detection.FraudDetectorUtils
	Recorder *LifecycleRecorder
	logger   *zap.Logger
}

func NewUndeployService(client fraud_detection.FraudDetectorAPI, utils fraud_detection.FraudDetectorUtils, recorder *LifecycleRecorder, logger *zap.Logger) *GfUndeployService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if utils == nil {
		utils = fraud_detection.NewFraudDetectorUtils(client, nil, logger)
	}
	return &GfUndeployService{
		Client:   client,
		Utils:    utils,
		Recorder: recorder,
		logger:   logger,
	}
}

// Undeploy deletes the detector when one is given and deactivates the model version when both
// model and version are given.
func (us *GfUndeployService) Undeploy(ctx context.Context, detectorID, modelID, modelVersion string) error {
	deleteDetector := detectorID != ""
	undeployModel := modelID != "" && modelVersion != ""
	if !deleteDetector && !undeployModel {
		return &fraud_detection.ValidationError{
			Subject: "undeploy request",
			Err:     errors.New("a detector id, or a model id with a model version, is required"),
		}
	}

	if deleteDetector {
		if err := us.DeleteDetector(ctx, detectorID); err != nil {
			return err
		}
	}
	if undeployModel {
		if err := us.UndeployModel(ctx, modelID, modelVersion, models.ModelTypeOnlineFraudInsights); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDetector removes every detector version, then every rule version, then the detector.
func (us *GfUndeployService) DeleteDetector(ctx context.Context, detectorID string) (err error) {
	ctx, span := tracer.Start(ctx, "UndeployService.DeleteDetector")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("detector.id", detectorID))

	if err := us.deleteDetectorVersions(ctx, detectorID); err != nil {
		return err
	}
	if err := us.deleteRules(ctx, detectorID); err != nil {
		return err
	}

	us.logger.Info("Deleting detector", zap.String("detector_id", detectorID))
	_, err = us.Client.DeleteDetector(ctx, &frauddetector.DeleteDetectorInput{
		DetectorId: aws.String(detectorID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete detector %s: %w", detectorID, err)
	}

	us.Recorder.Record(ctx, models.PipelineEvent{
		Action:     models.ActionDetectorDeleted,
		DetectorID: detectorID,
	})
	return nil
}

func (us *GfUndeployService) deleteDetectorVersions(ctx context.Context, detectorID string) error {
	var nextToken *string
	for {
		resp, err := us.Client.DescribeDetector(ctx, &frauddetector.DescribeDetectorInput{
			DetectorId: aws.String(detectorID),
			NextToken:  nextToken,
		})
		if err != nil {
			return fmt.Errorf("failed to describe detector %s: %w", detectorID, err)
		}
		if len(resp.DetectorVersionSummaries) == 0 {
			return nil
		}

		for _, summary := range resp.DetectorVersionSummaries {
			versionID := aws.ToString(summary.DetectorVersionId)
			us.logger.Info("Deleting detector version",
				zap.String("detector_id", detectorID),
				zap.String("detector_version_id", versionID),
			)
			_, err := us.Client.UpdateDetectorVersionStatus(ctx, &frauddetector.UpdateDetectorVersionStatusInput{
				DetectorId:        aws.String(detectorID),
				DetectorVersionId: aws.String(versionID),
				Status:            types.DetectorVersionStatusInactive,
			})
			if err != nil {
				return fmt.Errorf("failed to deactivate detector version %s/%s: %w", detectorID, versionID, err)
			}
			_, err = us.Client.DeleteDetectorVersion(ctx, &frauddetector.DeleteDetectorVersionInput{
				DetectorId:        aws.String(detectorID),
				DetectorVersionId: aws.String(versionID),
			})
			if err != nil {
				return fmt.Errorf("failed to delete detector version %s/%s: %w", detectorID, versionID, err)
			}
		}

		if aws.ToString(resp.NextToken) == "" {
			return nil
		}
		nextToken = resp.NextToken
	}
}

func (us *GfUndeployService) deleteRules(ctx context.Context, detectorID string) error {
	var nextToken *string
	for {
		resp, err := us.Client.GetRules(ctx, &frauddetector.GetRulesInput{
			DetectorId: aws.String(detectorID),
			NextToken:  nextToken,
		})
		if err != nil {
			if fraud_detection.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to get rules for detector %s: %w", detectorID, err)
		}
		if len(resp.RuleDetails) == 0 {
			return nil
		}

		for _, detail := range resp.RuleDetails {
			us.logger.Info("Deleting rule",
				zap.String("rule_id", aws.ToString(detail.RuleId)),
				zap.String("version", aws.ToString(detail.RuleVersion)),
			)
			_, err := us.Client.DeleteRule(ctx, &frauddetector.DeleteRuleInput{
				Rule: &types.Rule{
					DetectorId:  aws.String(detectorID),
					RuleId:      detail.RuleId,
					RuleVersion: detail.RuleVersion,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to delete rule %s version %s: %w",
					aws.ToString(detail.RuleId), aws.ToString(detail.RuleVersion), err)
			}
		}

		if aws.ToString(resp.NextToken) == "" {
			return nil
		}
		nextToken = resp.NextToken
	}
}

// UndeployModel sets the model version to INACTIVE and waits for the change to settle.
func (us *GfUndeployService) UndeployModel(ctx context.Context, modelID, modelVersion, modelType string) (err error) {
	ctx, span := tracer.Start(ctx, "UndeployService.UndeployModel")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("model.id", modelID),
		attribute.String("model.version", modelVersion),
	)

	if modelType == "" {
		modelType = models.ModelTypeOnlineFraudInsights
	}

	us.logger.Info("Deactivating model version",
		zap.String("model_id", modelID),
		zap.String("version", modelVersion),
	)
	_, err = us.Client.UpdateModelVersionStatus(ctx, &frauddetector.UpdateModelVersionStatusInput{
		ModelId:            aws.String(modelID),
		ModelType:          types.ModelTypeEnum(modelType),
		ModelVersionNumber: aws.String(modelVersion),
		Status:             types.ModelVersionStatusInactive,
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate model %s version %s: %w", modelID, modelVersion, err)
	}

	err = us.Utils.WaitUntilModelStatus(ctx, modelID, modelVersion, modelType,
		[]string{fraud_detection.ModelStatusError}, UndeploySuccessStates)
	if err != nil {
		return err
	}

	us.Recorder.Record(ctx, models.PipelineEvent{
		Action:       models.ActionModelUndeployed,
		ModelID:      modelID,
		ModelVersion: modelVersion,
		Status:       fraud_detection.ModelStatusInactive,
	})
	return nil
}
