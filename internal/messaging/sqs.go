package messaging

import (
	"context"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSSendAPI is the part of *sqs.Client used to enqueue pipeline events.
type SQSSendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type EventQueue interface {
	SendPipelineEvent(ctx context.Context, event models.PipelineEvent) error
}

type SQSHandler struct {
	client   SQSSendAPI
	queueURL string
}

func NewSQSHandler(client SQSSendAPI, queueURL string) *SQSHandler {
	return &SQSHandler{
		client:   client,
		queueURL: queueURL,
	}
}

// SendPipelineEvent sends a pipeline event to SQS
func (h *SQSHandler) SendPipelineEvent(ctx context.Context, event models.PipelineEvent) error {
	body, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline event: %w", err)
	}

	_, err = h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(body),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"Action": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Action)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send pipeline event to SQS: %w", err)
	}
	return nil
}
