package fraud_detection

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
)

// FraudDetectorAPI is the subset of the AWS Fraud Detector client used by the pipeline.
// *frauddetector.Client satisfies it; tests supply a mock.
type FraudDetectorAPI interface {
	GetVariables(ctx context.Context, params *frauddetector.GetVariablesInput, optFns ...func(*frauddetector.Options)) (*frauddetector.GetVariablesOutput, error)
	CreateVariable(ctx context.Context, params *frauddetector.CreateVariableInput, optFns ...func(*frauddetector.Options)) (*frauddetector.CreateVariableOutput, error)
	PutLabel(ctx context.Context, params *frauddetector.PutLabelInput, optFns ...func(*frauddetector.Options)) (*frauddetector.PutLabelOutput, error)

	GetRules(ctx context.Context, params *frauddetector.GetRulesInput, optFns ...func(*frauddetector.Options)) (*frauddetector.GetRulesOutput, error)
	CreateRule(ctx context.Context, params *frauddetector.CreateRuleInput, optFns ...func(*frauddetector.Options)) (*frauddetector.CreateRuleOutput, error)
	UpdateRuleVersion(ctx context.Context, params *frauddetector.UpdateRuleVersionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.UpdateRuleVersionOutput, error)
	DeleteRule(ctx context.Context, params *frauddetector.DeleteRuleInput, optFns ...func(*frauddetector.Options)) (*frauddetector.DeleteRuleOutput, error)

	PutEntityType(ctx context.Context, params *frauddetector.PutEntityTypeInput, optFns ...func(*frauddetector.Options)) (*frauddetector.PutEntityTypeOutput, error)
	PutEventType(ctx context.Context, params *frauddetector.PutEventTypeInput, optFns ...func(*frauddetector.Options)) (*frauddetector.PutEventTypeOutput, error)
	PutOutcome(ctx context.Context, params *frauddetector.PutOutcomeInput, optFns ...func(*frauddetector.Options)) (*frauddetector.PutOutcomeOutput, error)

	GetModels(ctx context.Context, params *frauddetector.GetModelsInput, optFns ...func(*frauddetector.Options)) (*frauddetector.GetModelsOutput, error)
	CreateModel(ctx context.Context, params *frauddetector.CreateModelInput, optFns ...func(*frauddetector.Options)) (*frauddetector.CreateModelOutput, error)
	CreateModelVersion(ctx context.Context, params *frauddetector.CreateModelVersionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.CreateModelVersionOutput, error)
	GetModelVersion(ctx context.Context, params *frauddetector.GetModelVersionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.GetModelVersionOutput, error)
	UpdateModelVersionStatus(ctx context.Context, params *frauddetector.UpdateModelVersionStatusInput, optFns ...func(*frauddetector.Options)) (*frauddetector.UpdateModelVersionStatusOutput, error)

	PutDetector(ctx context.Context, params *frauddetector.PutDetectorInput, optFns ...func(*frauddetector.Options)) (*frauddetector.PutDetectorOutput, error)
	DescribeDetector(ctx context.Context, params *frauddetector.DescribeDetectorInput, optFns ...func(*frauddetector.Options)) (*frauddetector.DescribeDetectorOutput, error)
	DeleteDetector(ctx context.Context, params *frauddetector.DeleteDetectorInput, optFns ...func(*frauddetector.Options)) (*frauddetector.DeleteDetectorOutput, error)
	CreateDetectorVersion(ctx context.Context, params *frauddetector.CreateDetectorVersionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.CreateDetectorVersionOutput, error)
	UpdateDetectorVersionStatus(ctx context.Context, params *frauddetector.UpdateDetectorVersionStatusInput, optFns ...func(*frauddetector.Options)) (*frauddetector.UpdateDetectorVersionStatusOutput, error)
	DeleteDetectorVersion(ctx context.Context, params *frauddetector.DeleteDetectorVersionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.DeleteDetectorVersionOutput, error)

	GetEventPrediction(ctx context.Context, params *frauddetector.GetEventPredictionInput, optFns ...func(*frauddetector.Options)) (*frauddetector.GetEventPredictionOutput, error)
}

var _ FraudDetectorAPI = (*frauddetector.Client)(nil)
