package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/testutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type TrainingServiceTestSuite struct {
	suite.Suite
	client    *testutil.MockFraudDetectorAPI
	utils     *testutil.MockFraudDetectorUtils
	variables *MockFeatureVariables
	repo      *MockDeploymentRepository
	out       *bytes.Buffer
	service   *GfTrainingService
	request   TrainRequest
}

func (s *TrainingServiceTestSuite) SetupTest() {
	logger := zaptest.NewLogger(s.T())
	s.client = new(testutil.MockFraudDetectorAPI)
	s.utils = new(testutil.MockFraudDetectorUtils)
	s.variables = new(MockFeatureVariables)
	s.repo = new(MockDeploymentRepository)
	s.out = &bytes.Buffer{}

	s.service = NewTrainingService(s.client, s.utils, NewLifecycleRecorder(nil, s.repo, logger), logger)
	s.service.Out = s.out

	s.request = TrainRequest{
		ModelName:            "demo_model",
		ModelDescription:     "demo model",
		ModelType:            models.ModelTypeOnlineFraudInsights,
		TrainingDataLocation: "s3://bucket/training.csv",
		RoleArn:              "arn:aws:iam::123456789012:role/fd-data-access",
		EventTypeName:        "demoevent",
	}

	s.variables.On("CreateOrRetrieveFeatures", mock.Anything).Return([]string{"email_address", "ip_address"}, nil).Maybe()
	s.variables.On("CreateOrRetrieveLabels", mock.Anything).Return(models.LabelSchema{
		models.LabelKeyFraud: {"1"},
		models.LabelKeyLegit: {"0"},
	}, nil).Maybe()
}

func (s *TrainingServiceTestSuite) expectTraining(version, status string) {
	s.client.On("CreateModelVersion", mock.Anything, mock.MatchedBy(func(in *frauddetector.CreateModelVersionInput) bool {
		return aws.ToString(in.ModelId) == "demo_model" &&
			in.TrainingDataSource == types.TrainingDataSourceEnumExternalEvents &&
			aws.ToString(in.ExternalEventsDetail.DataLocation) == s.request.TrainingDataLocation &&
			aws.ToString(in.ExternalEventsDetail.DataAccessRoleArn) == s.request.RoleArn &&
			len(in.TrainingDataSchema.ModelVariables) == 2 &&
			len(in.TrainingDataSchema.LabelSchema.LabelMapper[models.LabelKeyFraud]) == 1
	})).Return(&frauddetector.CreateModelVersionOutput{ModelVersionNumber: aws.String(version)}, nil).Once()
	s.client.On("GetModelVersion", mock.Anything, mock.MatchedBy(func(in *frauddetector.GetModelVersionInput) bool {
		return aws.ToString(in.ModelVersionNumber) == version
	})).Return(&frauddetector.GetModelVersionOutput{
		ModelId:            aws.String("demo_model"),
		ModelVersionNumber: aws.String(version),
		Status:             aws.String(status),
	}, nil).Once()
}

func (s *TrainingServiceTestSuite) TestCreatesMissingModel() {
	// Arrange
	s.client.On("GetModels", mock.Anything, mock.Anything).Return(nil, testutil.NotFound()).Once()
	s.client.On("CreateModel", mock.Anything, mock.MatchedBy(func(in *frauddetector.CreateModelInput) bool {
		return aws.ToString(in.ModelId) == "demo_model" && aws.ToString(in.EventTypeName) == "demoevent"
	})).Return(&frauddetector.CreateModelOutput{}, nil).Once()
	s.expectTraining("1.0", "TRAINING_IN_PROGRESS")
	s.repo.On("SaveEvent", mock.Anything, mock.MatchedBy(func(e *models.PipelineEvent) bool {
		return e.Action == models.ActionModelTrained && e.ModelVersion == "1.0" && e.Status == "TRAINING_IN_PROGRESS"
	})).Return(nil).Once()

	// Act
	status, err := s.service.Run(context.Background(), s.request, s.variables)

	// Assert
	s.Require().NoError(err)
	s.Equal("TRAINING_IN_PROGRESS", aws.ToString(status.Status))
	s.Equal("##ModelVersion##:1.0\n##ModelName##:demo_model\n", s.out.String())
	s.utils.AssertNotCalled(s.T(), "WaitUntilModelStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.client.AssertExpectations(s.T())
	s.repo.AssertExpectations(s.T())
}

func (s *TrainingServiceTestSuite) TestCreatesModelWhenListIsEmpty() {
	s.client.On("GetModels", mock.Anything, mock.Anything).Return(&frauddetector.GetModelsOutput{}, nil).Once()
	s.client.On("CreateModel", mock.Anything, mock.Anything).Return(&frauddetector.CreateModelOutput{}, nil).Once()
	s.expectTraining("1.0", "TRAINING_IN_PROGRESS")
	s.repo.On("SaveEvent", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.Run(context.Background(), s.request, s.variables)

	s.NoError(err)
	s.client.AssertCalled(s.T(), "CreateModel", mock.Anything, mock.Anything)
}

func (s *TrainingServiceTestSuite) TestReusesExistingModelAndWaits() {
	// Arrange
	s.request.Wait = true
	s.client.On("GetModels", mock.Anything, mock.Anything).Return(&frauddetector.GetModelsOutput{
		Models: []types.Model{{ModelId: aws.String("demo_model")}},
	}, nil).Once()
	s.expectTraining("2.0", fraud_detection.ModelStatusTrainingComplete)
	s.utils.On("WaitUntilModelStatus", mock.Anything, "demo_model", "2.0", models.ModelTypeOnlineFraudInsights,
		[]string{fraud_detection.ModelStatusError},
		[]string{fraud_detection.ModelStatusTrainingComplete}).Return(nil).Once()
	s.repo.On("SaveEvent", mock.Anything, mock.Anything).Return(nil).Once()

	// Act
	status, err := s.service.Run(context.Background(), s.request, s.variables)

	// Assert
	s.Require().NoError(err)
	s.Equal(fraud_detection.ModelStatusTrainingComplete, aws.ToString(status.Status))
	s.client.AssertNotCalled(s.T(), "CreateModel", mock.Anything, mock.Anything)
	s.utils.AssertExpectations(s.T())
}

func (s *TrainingServiceTestSuite) TestTrainingFailureIsReturned() {
	s.request.Wait = true
	failure := &fraud_detection.TerminalFailure{Status: fraud_detection.ModelStatusError}
	s.client.On("GetModels", mock.Anything, mock.Anything).Return(&frauddetector.GetModelsOutput{
		Models: []types.Model{{ModelId: aws.String("demo_model")}},
	}, nil).Once()
	s.client.On("CreateModelVersion", mock.Anything, mock.Anything).
		Return(&frauddetector.CreateModelVersionOutput{ModelVersionNumber: aws.String("3.0")}, nil).Once()
	s.utils.On("WaitUntilModelStatus", mock.Anything, "demo_model", "3.0", mock.Anything, mock.Anything, mock.Anything).
		Return(failure).Once()

	_, err := s.service.Run(context.Background(), s.request, s.variables)

	var terminal *fraud_detection.TerminalFailure
	s.Require().ErrorAs(err, &terminal)
	s.repo.AssertNotCalled(s.T(), "SaveEvent", mock.Anything, mock.Anything)
	s.client.AssertNotCalled(s.T(), "GetModelVersion", mock.Anything, mock.Anything)
}

func (s *TrainingServiceTestSuite) TestGetModelsErrorStops() {
	s.client.On("GetModels", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	_, err := s.service.Run(context.Background(), s.request, s.variables)

	s.ErrorContains(err, "throttled")
	s.client.AssertNotCalled(s.T(), "CreateModelVersion", mock.Anything, mock.Anything)
}

func (s *TrainingServiceTestSuite) TestInvalidRequest() {
	s.request.TrainingDataLocation = ""

	_, err := s.service.Run(context.Background(), s.request, s.variables)

	var validation *fraud_detection.ValidationError
	s.Require().ErrorAs(err, &validation)
	s.Empty(s.client.Calls)
	s.variables.AssertNotCalled(s.T(), "CreateOrRetrieveFeatures", mock.Anything)
}

func TestTrainingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TrainingServiceTestSuite))
}
