package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/middleware"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	ExecutionModeFirstMatched = string(types.RuleExecutionModeFirstMatched)
	ExecutionModeAllMatched   = string(types.RuleExecutionModeAllMatched)
)

// DeployRequest describes the detector version to assemble.
type DeployRequest struct {
	DetectorID          string
	DetectorDescription string
	EventTypeName       string
	Rules               []fraud_detection.DetectorRule
	// RuleExecutionMode defaults to FIRST_MATCHED.
	RuleExecutionMode string
	ModelVersions     []models.ModelVersionRef
}

type DeployService interface {
	Deploy(ctx context.Context, req DeployRequest) (*models.DeployResult, error)
}

type GfDeployService struct {
	Client   fraud_detection.FraudDetectorAPI
	Utils    fraud_detection.FraudDetectorUtils
	Recorder *LifecycleRecorder
	logger   *zap.Logger
}

func NewDeployService(client fraud_detection.FraudDetectorAPI, utils fraud_detection.FraudDetectorUtils, recorder *LifecycleRecorder, logger *zap.Logger) *GfDeployService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if utils == nil {
		utils = fraud_detection.NewFraudDetectorUtils(client, nil, logger)
	}
	return &GfDeployService{
		Client:   client,
		Utils:    utils,
		Recorder: recorder,
		logger:   logger,
	}
}

// Deploy puts the detector, validates and reconciles its rules, activates the model versions
// and creates and activates a new detector version. Steps are not rolled back on failure;
// every step is safe to re-run.
func (ds *GfDeployService) Deploy(ctx context.Context, req DeployRequest) (_ *models.DeployResult, err error) {
	ctx, span := tracer.Start(ctx, "DeployService.Deploy")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("detector.id", req.DetectorID),
		attribute.Int("rules.count", len(req.Rules)),
		attribute.Int("models.count", len(req.ModelVersions)),
	)

	executionMode, err := checkDeployRequest(req)
	if err != nil {
		return nil, err
	}

	ds.logger.Info("Creating detector", zap.String("detector_id", req.DetectorID))
	_, err = ds.Client.PutDetector(ctx, &frauddetector.PutDetectorInput{
		DetectorId:    aws.String(req.DetectorID),
		Description:   aws.String(req.DetectorDescription),
		EventTypeName: aws.String(req.EventTypeName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put detector %s: %w", req.DetectorID, err)
	}

	if err := validateRules(req.Rules); err != nil {
		return nil, err
	}

	ruleRefs := make([]models.RuleRef, 0, len(req.Rules))
	for _, rule := range req.Rules {
		for _, outcome := range rule.Outcomes() {
			ds.logger.Info("Creating outcome", zap.String("outcome", outcome))
			_, err := ds.Client.PutOutcome(ctx, &frauddetector.PutOutcomeInput{
				Name:        aws.String(outcome),
				Description: aws.String("Outcome for rule " + rule.Description()),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to put outcome %s: %w", outcome, err)
			}
		}

		ref, err := ds.Utils.CreateOrUpdateRule(ctx, req.DetectorID, rule)
		if err != nil {
			return nil, err
		}
		ruleRefs = append(ruleRefs, ref)
	}

	for _, mv := range req.ModelVersions {
		ds.logger.Info("Activating model version",
			zap.String("model_id", mv.ModelID),
			zap.String("version", mv.VersionNumber),
		)
		_, err := ds.Client.UpdateModelVersionStatus(ctx, &frauddetector.UpdateModelVersionStatusInput{
			ModelId:            aws.String(mv.ModelID),
			ModelType:          types.ModelTypeEnum(mv.ModelType),
			ModelVersionNumber: aws.String(mv.VersionNumber),
			Status:             types.ModelVersionStatusActive,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to activate model %s version %s: %w", mv.ModelID, mv.VersionNumber, err)
		}

		err = ds.Utils.WaitUntilModelStatus(ctx, mv.ModelID, mv.VersionNumber, mv.ModelType,
			[]string{fraud_detection.ModelStatusError},
			[]string{fraud_detection.ModelStatusActive})
		if err != nil {
			return nil, err
		}
	}

	rules := make([]types.Rule, 0, len(ruleRefs))
	for _, ref := range ruleRefs {
		rules = append(rules, ref.ToRule())
	}
	modelVersions := make([]types.ModelVersion, 0, len(req.ModelVersions))
	for _, mv := range req.ModelVersions {
		modelVersions = append(modelVersions, mv.ToDetectorModelVersion())
	}

	ds.logger.Info("Creating detector version", zap.String("detector_id", req.DetectorID))
	created, err := ds.Client.CreateDetectorVersion(ctx, &frauddetector.CreateDetectorVersionInput{
		DetectorId:        aws.String(req.DetectorID),
		Description:       aws.String(req.DetectorDescription),
		Rules:             rules,
		ModelVersions:     modelVersions,
		RuleExecutionMode: types.RuleExecutionMode(executionMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detector version for %s: %w", req.DetectorID, err)
	}
	detectorVersionID := aws.ToString(created.DetectorVersionId)

	ds.logger.Info("Activating detector version",
		zap.String("detector_id", req.DetectorID),
		zap.String("detector_version_id", detectorVersionID),
	)
	_, err = ds.Client.UpdateDetectorVersionStatus(ctx, &frauddetector.UpdateDetectorVersionStatusInput{
		DetectorId:        aws.String(req.DetectorID),
		DetectorVersionId: aws.String(detectorVersionID),
		Status:            types.DetectorVersionStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate detector version %s/%s: %w", req.DetectorID, detectorVersionID, err)
	}

	ds.Recorder.Record(ctx, models.PipelineEvent{
		Action:            models.ActionDetectorDeployed,
		DetectorID:        req.DetectorID,
		DetectorVersionID: detectorVersionID,
		Status:            string(types.DetectorVersionStatusActive),
		Rules:             ruleRefs,
	})

	return &models.DeployResult{
		DetectorVersionID: detectorVersionID,
		DetectorID:        req.DetectorID,
	}, nil
}

// checkDeployRequest runs the checks that need no remote call and returns the execution mode.
func checkDeployRequest(req DeployRequest) (string, error) {
	if strings.TrimSpace(req.DetectorID) == "" {
		return "", &fraud_detection.ValidationError{Subject: "deploy request", Err: errors.New("detector id is required")}
	}
	if len(req.ModelVersions) == 0 {
		return "", &fraud_detection.ValidationError{Subject: "deploy request", Err: errors.New("at least one model version is required")}
	}
	for i, mv := range req.ModelVersions {
		if err := mv.Validate(); err != nil {
			return "", &fraud_detection.ValidationError{Subject: fmt.Sprintf("model version %d", i), Err: err}
		}
	}

	mode := req.RuleExecutionMode
	if mode == "" {
		mode = ExecutionModeFirstMatched
	}
	if mode != ExecutionModeFirstMatched && mode != ExecutionModeAllMatched {
		return "", &fraud_detection.ValidationError{Subject: "deploy request", Err: fmt.Errorf("unknown rule execution mode %q", mode)}
	}
	return mode, nil
}

// validateRules collects the problems of every rule into one ValidationError.
func validateRules(rules []fraud_detection.DetectorRule) error {
	errCh := make(chan error, len(rules))
	for _, rule := range rules {
		if problems := rule.Validate(); len(problems) > 0 {
			errCh <- fmt.Errorf("rule %s: %s", rule.RuleID(), strings.Join(problems, "; "))
		}
	}
	close(errCh)

	if err := middleware.MergeErrors(errCh); err != nil {
		return &fraud_detection.ValidationError{Subject: "rules", Err: err}
	}
	return nil
}
