package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type MockDynamoDBClient struct {
	mock.Mock
}

func (m *MockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

type RepositoryTestSuite struct {
	suite.Suite
	client *MockDynamoDBClient
	repo   *DynamoDeploymentRepository
	event  *models.PipelineEvent
}

func (s *RepositoryTestSuite) SetupTest() {
	s.client = new(MockDynamoDBClient)
	s.repo = NewDeploymentRepository(NewDynamoDBClient(s.client, "fd-ledger", "RecordID"), zaptest.NewLogger(s.T()))
	s.event = &models.PipelineEvent{
		EventID:           gofakeit.UUID(),
		Action:            models.ActionDetectorDeployed,
		DetectorID:        "demo_detector",
		DetectorVersionID: "2",
		Status:            "ACTIVE",
		Rules:             []models.RuleRef{{DetectorID: "demo_detector", RuleID: "positivescorerule", RuleVersion: "1"}},
		Timestamp:         time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

func (s *RepositoryTestSuite) TestSaveEvent() {
	// Arrange
	s.client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		id, ok := in.Item["RecordID"].(*types.AttributeValueMemberS)
		return ok && id.Value == s.event.EventID &&
			aws.ToString(in.TableName) == "fd-ledger" &&
			aws.ToString(in.ConditionExpression) == "attribute_not_exists(#pk)" &&
			in.ExpressionAttributeNames["#pk"] == "RecordID"
	})).Return(&dynamodb.PutItemOutput{
		ConsumedCapacity: &types.ConsumedCapacity{CapacityUnits: aws.Float64(1)},
	}, nil).Once()

	// Act
	err := s.repo.SaveEvent(context.Background(), s.event)

	// Assert
	s.NoError(err)
	s.client.AssertExpectations(s.T())
}

func (s *RepositoryTestSuite) TestSaveEventDuplicate() {
	s.client.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}).Once()

	err := s.repo.SaveEvent(context.Background(), s.event)

	s.ErrorIs(err, ErrItemExists)
}

func (s *RepositoryTestSuite) TestSaveEventWithoutID() {
	s.event.EventID = ""

	err := s.repo.SaveEvent(context.Background(), s.event)

	s.Error(err)
	s.Empty(s.client.Calls)
}

func (s *RepositoryTestSuite) TestGetEventRoundTrip() {
	// Arrange
	item, err := s.event.MarshalDynamoDB()
	s.Require().NoError(err)
	s.client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		id, ok := in.Key["RecordID"].(*types.AttributeValueMemberS)
		return ok && id.Value == s.event.EventID
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil).Once()

	// Act
	got, err := s.repo.GetEvent(context.Background(), s.event.EventID)

	// Assert
	s.Require().NoError(err)
	s.Equal(s.event, got)
}

func (s *RepositoryTestSuite) TestGetEventMissing() {
	s.client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

	_, err := s.repo.GetEvent(context.Background(), "missing")

	s.ErrorIs(err, ErrItemNotFound)
}

func (s *RepositoryTestSuite) TestGetEventClientError() {
	boom := errors.New("table not found")
	s.client.On("GetItem", mock.Anything, mock.Anything).Return(nil, boom).Once()

	_, err := s.repo.GetEvent(context.Background(), "any")

	s.ErrorIs(err, boom)
}

func (s *RepositoryTestSuite) TestGetEventRequiresID() {
	_, err := s.repo.GetEvent(context.Background(), "")

	s.ErrorContains(err, "RecordID")
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
