package fraud_detection

import (
	"context"
	"fmt"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
)

// FraudDetector scores a single event against a deployed detector version
type FraudDetector interface {
	PredictFraud(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

// GfAWSFraudDetector implements the FraudDetector interface using AWS Fraud Detector
type GfAWSFraudDetector struct {
	client FraudDetectorAPI
	now    func() time.Time
}

// NewGfAWSFraudDetector creates a new instance of GfAWSFraudDetector
func NewGfAWSFraudDetector(client FraudDetectorAPI) *GfAWSFraudDetector {
	return &GfAWSFraudDetector{
		client: client,
		now:    time.Now,
	}
}

// PredictFraud sends the event to the detector and collects model scores and matched rule outcomes.
func (fd *GfAWSFraudDetector) PredictFraud(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Subject: "prediction request", Err: err}
	}

	timestamp := req.EventTimestamp
	if timestamp == "" {
		timestamp = fd.now().UTC().Format(time.RFC3339)
	}

	input := &frauddetector.GetEventPredictionInput{
		DetectorId:     aws.String(req.DetectorID),
		EventId:        aws.String(req.EventID),
		EventTypeName:  aws.String(req.EventTypeName),
		EventTimestamp: aws.String(timestamp),
		EventVariables: req.Variables,
		Entities: []types.Entity{
			{
				EntityType: aws.String(req.EntityType),
				EntityId:   aws.String(req.EntityID),
			},
		},
	}
	if req.DetectorVersionID != "" {
		input.DetectorVersionId = aws.String(req.DetectorVersionID)
	}

	result, err := fd.client.GetEventPrediction(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get fraud prediction for event %s: %w", req.EventID, err)
	}

	prediction := &models.PredictionResult{
		EventID:     req.EventID,
		ModelScores: map[string]float32{},
	}
	for _, score := range result.ModelScores {
		for name, value := range score.Scores {
			prediction.ModelScores[name] = value
		}
	}
	for _, rule := range result.RuleResults {
		prediction.Outcomes = append(prediction.Outcomes, rule.Outcomes...)
		if len(rule.Outcomes) > 0 {
			prediction.MatchedRules = append(prediction.MatchedRules, aws.ToString(rule.RuleId))
		}
	}

	return prediction, nil
}
