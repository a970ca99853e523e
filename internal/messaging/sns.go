package messaging

import (
	"context"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublishAPI is the part of *sns.Client used to publish notifications.
type SNSPublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSMessenger interface {
	PublishPipelineEvent(ctx context.Context, event models.PipelineEvent) (*sns.PublishOutput, error)
}

type GfSNSMessenger struct {
	Client   SNSPublishAPI
	TopicArn string
}

func NewGfSNSMessenger(snsClient SNSPublishAPI, topicArn string) *GfSNSMessenger {
	return &GfSNSMessenger{
		Client:   snsClient,
		TopicArn: topicArn,
	}
}

// PublishPipelineEvent publishes the event as JSON. Subscribers can filter on the Action attribute.
func (messenger *GfSNSMessenger) PublishPipelineEvent(ctx context.Context, event models.PipelineEvent) (*sns.PublishOutput, error) {
	message, err := event.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pipeline event: %w", err)
	}

	input := &sns.PublishInput{
		Message:           aws.String(message),
		Subject:           aws.String(event.Subject()),
		TopicArn:          aws.String(messenger.TopicArn),
		MessageAttributes: GetMessageAttributes(event),
	}

	publishOutput, err := messenger.Client.Publish(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to publish pipeline event to SNS: %w", err)
	}

	return publishOutput, nil
}

func GetMessageAttributes(event models.PipelineEvent) map[string]types.MessageAttributeValue {
	attributes := map[string]types.MessageAttributeValue{
		"Action": NewMessageAttributeValue("String", string(event.Action)),
	}
	if event.DetectorID != "" {
		attributes["DetectorID"] = NewMessageAttributeValue("String", event.DetectorID)
	}
	if event.ModelID != "" {
		attributes["ModelID"] = NewMessageAttributeValue("String", event.ModelID)
	}
	return attributes
}

func NewMessageAttributeValue(dataType string, stringValue string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String(dataType),
		StringValue: aws.String(stringValue),
	}
}
