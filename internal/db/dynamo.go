package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemExists is returned by PutItem when an item with the same key is already stored.
var ErrItemExists = errors.New("item already exists")

// DynamoDBAPI is the part of *dynamodb.Client used by the ledger.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBClient wraps the AWS SDK client
type DynamoDBClient struct {
	Client       DynamoDBAPI
	TableName    string
	PartitionKey string
}

func NewDynamoDBClient(client DynamoDBAPI, tableName, partitionKey string) *DynamoDBClient {
	return &DynamoDBClient{
		Client:       client,
		TableName:    tableName,
		PartitionKey: partitionKey,
	}
}

// PutItem inserts an item that must not exist yet and returns the consumed capacity as JSON.
func (d *DynamoDBClient) PutItem(ctx context.Context, item map[string]types.AttributeValue) (*dynamodb.PutItemOutput, string, error) {
	output, err := d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		Item:                     item,
		TableName:                aws.String(d.TableName),
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": d.PartitionKey},
		ReturnConsumedCapacity:   types.ReturnConsumedCapacityTotal,
	})

	var conditionCheckErr *types.ConditionalCheckFailedException
	if err != nil {
		if errors.As(err, &conditionCheckErr) {
			return nil, "", ErrItemExists
		}
		return nil, "", fmt.Errorf("failed to put item: %w", err)
	}

	metadata, err := json.Marshal(output.ConsumedCapacity)
	if err != nil {
		return output, "", fmt.Errorf("failed to serialize metadata: %w", err)
	}

	return output, string(metadata), nil
}

// GetItem retrieves an item from DynamoDB by primary key
func (d *DynamoDBClient) GetItem(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	result, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.TableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, ErrItemNotFound
	}
	return result.Item, nil
}

var ErrItemNotFound = errors.New("item not found")
