package models

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type PipelineAction string

const (
	ActionModelTrained     PipelineAction = "MODEL_TRAINED"
	ActionDetectorDeployed PipelineAction = "DETECTOR_DEPLOYED"
	ActionDetectorDeleted  PipelineAction = "DETECTOR_DELETED"
	ActionModelUndeployed  PipelineAction = "MODEL_UNDEPLOYED"
)

// PipelineEvent is published after a pipeline step completes.
type PipelineEvent struct {
	EventID           string         `json:"eventId" dynamodbav:"RecordID"`
	Action            PipelineAction `json:"action" dynamodbav:"Action"`
	DetectorID        string         `json:"detectorId,omitempty" dynamodbav:"DetectorID,omitempty"`
	DetectorVersionID string         `json:"detectorVersionId,omitempty" dynamodbav:"DetectorVersionID,omitempty"`
	ModelID           string         `json:"modelId,omitempty" dynamodbav:"ModelID,omitempty"`
	ModelVersion      string         `json:"modelVersion,omitempty" dynamodbav:"ModelVersion,omitempty"`
	Status            string         `json:"status,omitempty" dynamodbav:"Status,omitempty"`
	Rules             []RuleRef      `json:"rules,omitempty" dynamodbav:"Rules,omitempty"`
	Timestamp         time.Time      `json:"timestamp" dynamodbav:"Timestamp"`
}

// Subject is a short human readable line for notification channels that support one.
func (e PipelineEvent) Subject() string {
	switch e.Action {
	case ActionModelTrained:
		return "Fraud model training started: " + e.ModelID
	case ActionDetectorDeployed:
		return "Fraud detector deployed: " + e.DetectorID
	case ActionDetectorDeleted:
		return "Fraud detector deleted: " + e.DetectorID
	case ActionModelUndeployed:
		return "Fraud model undeployed: " + e.ModelID
	default:
		return "Fraud pipeline event"
	}
}

func (e PipelineEvent) JSON() (string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// MarshalDynamoDB marshals the event into a ledger item.
func (e *PipelineEvent) MarshalDynamoDB() (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(e)
}

// UnmarshalDynamoDB unmarshals a ledger item into a PipelineEvent.
func UnmarshalDynamoDB(av map[string]types.AttributeValue) (*PipelineEvent, error) {
	var event PipelineEvent
	if err := attributevalue.UnmarshalMap(av, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
