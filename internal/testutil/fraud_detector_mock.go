package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/stretchr/testify/mock"
)

// MockFraudDetectorAPI is a testify mock of the Fraud Detector client. Expectations match on
// the input pointer, usually through mock.MatchedBy.
type MockFraudDetectorAPI struct {
	mock.Mock
}

func (m *MockFraudDetectorAPI) GetVariables(ctx context.Context, in *frauddetector.GetVariablesInput, _ ...func(*frauddetector.Options)) (*frauddetector.GetVariablesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.GetVariablesOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) CreateVariable(ctx context.Context, in *frauddetector.CreateVariableInput, _ ...func(*frauddetector.Options)) (*frauddetector.CreateVariableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.CreateVariableOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) PutLabel(ctx context.Context, in *frauddetector.PutLabelInput, _ ...func(*frauddetector.Options)) (*frauddetector.PutLabelOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.PutLabelOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) GetRules(ctx context.Context, in *frauddetector.GetRulesInput, _ ...func(*frauddetector.Options)) (*frauddetector.GetRulesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.GetRulesOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) CreateRule(ctx context.Context, in *frauddetector.CreateRuleInput, _ ...func(*frauddetector.Options)) (*frauddetector.CreateRuleOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.CreateRuleOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) UpdateRuleVersion(ctx context.Context, in *frauddetector.UpdateRuleVersionInput, _ ...func(*frauddetector.Options)) (*frauddetector.UpdateRuleVersionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.UpdateRuleVersionOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) DeleteRule(ctx context.Context, in *frauddetector.DeleteRuleInput, _ ...func(*frauddetector.Options)) (*frauddetector.DeleteRuleOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.DeleteRuleOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) PutEntityType(ctx context.Context, in *frauddetector.PutEntityTypeInput, _ ...func(*frauddetector.Options)) (*frauddetector.PutEntityTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.PutEntityTypeOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) PutEventType(ctx context.Context, in *frauddetector.PutEventTypeInput, _ ...func(*frauddetector.Options)) (*frauddetector.PutEventTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.PutEventTypeOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) PutOutcome(ctx context.Context, in *frauddetector.PutOutcomeInput, _ ...func(*frauddetector.Options)) (*frauddetector.PutOutcomeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.PutOutcomeOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) GetModels(ctx context.Context, in *frauddetector.GetModelsInput, _ ...func(*frauddetector.Options)) (*frauddetector.GetModelsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.GetModelsOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) CreateModel(ctx context.Context, in *frauddetector.CreateModelInput, _ ...func(*frauddetector.Options)) (*frauddetector.CreateModelOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.CreateModelOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) CreateModelVersion(ctx context.Context, in *frauddetector.CreateModelVersionInput, _ ...func(*frauddetector.Options)) (*frauddetector.CreateModelVersionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.CreateModelVersionOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) GetModelVersion(ctx context.Context, in *frauddetector.GetModelVersionInput, _ ...func(*frauddetector.Options)) (*frauddetector.GetModelVersionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.GetModelVersionOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) UpdateModelVersionStatus(ctx context.Context, in *frauddetector.UpdateModelVersionStatusInput, _ ...func(*frauddetector.Options)) (*frauddetector.UpdateModelVersionStatusOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.UpdateModelVersionStatusOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) PutDetector(ctx context.Context, in *frauddetector.PutDetectorInput, _ ...func(*frauddetector.Options)) (*frauddetector.PutDetectorOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.PutDetectorOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) DescribeDetector(ctx context.Context, in *frauddetector.DescribeDetectorInput, _ ...func(*frauddetector.Options)) (*frauddetector.DescribeDetectorOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.DescribeDetectorOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) DeleteDetector(ctx context.Context, in *frauddetector.DeleteDetectorInput, _ ...func(*frauddetector.Options)) (*frauddetector.DeleteDetectorOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.DeleteDetectorOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) CreateDetectorVersion(ctx context.Context, in *frauddetector.CreateDetectorVersionInput, _ ...func(*frauddetector.Options)) (*frauddetector.CreateDetectorVersionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.CreateDetectorVersionOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) UpdateDetectorVersionStatus(ctx context.Context, in *frauddetector.UpdateDetectorVersionStatusInput, _ ...func(*frauddetector.Options)) (*frauddetector.UpdateDetectorVersionStatusOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.UpdateDetectorVersionStatusOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) DeleteDetectorVersion(ctx context.Context, in *frauddetector.DeleteDetectorVersionInput, _ ...func(*frauddetector.Options)) (*frauddetector.DeleteDetectorVersionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.DeleteDetectorVersionOutput)
	return out, args.Error(1)
}

func (m *MockFraudDetectorAPI) GetEventPrediction(ctx context.Context, in *frauddetector.GetEventPredictionInput, _ ...func(*frauddetector.Options)) (*frauddetector.GetEventPredictionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*frauddetector.GetEventPredictionOutput)
	return out, args.Error(1)
}
