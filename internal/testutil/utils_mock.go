package testutil

import (
	"context"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockFraudDetectorUtils struct {
	mock.Mock
}

func (m *MockFraudDetectorUtils) TryCreateVariable(ctx context.Context, spec fraud_detection.VariableSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

func (m *MockFraudDetectorUtils) CreateOrUpdateLabel(ctx context.Context, label, description string) (string, error) {
	args := m.Called(ctx, label, description)
	return args.String(0), args.Error(1)
}

func (m *MockFraudDetectorUtils) CreateOrUpdateRule(ctx context.Context, detectorID string, rule fraud_detection.DetectorRule) (models.RuleRef, error) {
	args := m.Called(ctx, detectorID, rule)
	return args.Get(0).(models.RuleRef), args.Error(1)
}

func (m *MockFraudDetectorUtils) WaitUntilModelStatus(ctx context.Context, modelID, modelVersion, modelType string, failStates, successStates []string) error {
	args := m.Called(ctx, modelID, modelVersion, modelType, failStates, successStates)
	return args.Error(0)
}

// NotFound returns the error the service raises for a missing resource.
func NotFound() error {
	return &types.ResourceNotFoundException{Message: aws.String("resource not found")}
}

// NoSleepPoller returns a poller that does not wait between checks and counts its sleeps.
func NoSleepPoller(logger *zap.Logger) (*fraud_detection.StatusPoller, *int) {
	sleeps := 0
	poller := fraud_detection.NewStatusPoller(logger, time.Minute)
	poller.Sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}
	return poller, &sleeps
}
