package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DeploymentRepository is the audit ledger of completed pipeline steps.
type DeploymentRepository interface {
	SaveEvent(ctx context.Context, event *models.PipelineEvent) error
	GetEvent(ctx context.Context, eventID string) (*models.PipelineEvent, error)
}

type DynamoDeploymentRepository struct {
	DB     *DynamoDBClient
	logger *zap.Logger
}

func NewDeploymentRepository(db *DynamoDBClient, logger *zap.Logger) *DynamoDeploymentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DynamoDeploymentRepository{DB: db, logger: logger}
}

func (r *DynamoDeploymentRepository) SaveEvent(ctx context.Context, event *models.PipelineEvent) error {
	if event.EventID == "" {
		return errors.New("pipeline event has no id")
	}

	item, err := event.MarshalDynamoDB()
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline event: %w", err)
	}

	_, metadata, err := r.DB.PutItem(ctx, item)
	if err != nil {
		return err
	}

	r.logger.Debug("Pipeline event saved",
		zap.String("event_id", event.EventID),
		zap.String("action", string(event.Action)),
		zap.String("consumed_capacity", metadata),
	)
	return nil
}

// GetEvent retrieves a ledger record by id
func (r *DynamoDeploymentRepository) GetEvent(ctx context.Context, eventID string) (*models.PipelineEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%s cannot be empty", r.DB.PartitionKey)
	}

	key := map[string]types.AttributeValue{
		r.DB.PartitionKey: &types.AttributeValueMemberS{Value: eventID},
	}

	item, err := r.DB.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}

	event, err := models.UnmarshalDynamoDB(item)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal pipeline event: %w", err)
	}
	return event, nil
}
