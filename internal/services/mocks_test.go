package services

import (
	"context"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockEventDispatcher struct {
	mock.Mock
}

func (m *MockEventDispatcher) DispatchPipelineEvent(ctx context.Context, event models.PipelineEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) SaveEvent(ctx context.Context, event *models.PipelineEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDeploymentRepository) GetEvent(ctx context.Context, eventID string) (*models.PipelineEvent, error) {
	args := m.Called(ctx, eventID)
	event, _ := args.Get(0).(*models.PipelineEvent)
	return event, args.Error(1)
}

type MockFeatureVariables struct {
	mock.Mock
}

func (m *MockFeatureVariables) CreateOrRetrieveFeatures(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	features, _ := args.Get(0).([]string)
	return features, args.Error(1)
}

func (m *MockFeatureVariables) CreateOrRetrieveLabels(ctx context.Context) (models.LabelSchema, error) {
	args := m.Called(ctx)
	labels, _ := args.Get(0).(models.LabelSchema)
	return labels, args.Error(1)
}

// callLog records the order of mocked calls.
type callLog struct {
	calls []string
}

func (l *callLog) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) {
		l.calls = append(l.calls, name)
	}
}
