package services

import (
	"context"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/features"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CreateEventRequest struct {
	EventTypeName         string `validate:"required"`
	EventDescription      string
	EntityTypeName        string `validate:"required"`
	EntityTypeDescription string
}

type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest, variables features.FeatureVariables) error
}

type GfEventService struct {
	Client fraud_detection.FraudDetectorAPI
	logger *zap.Logger
}

func NewEventService(client fraud_detection.FraudDetectorAPI, logger *zap.Logger) *GfEventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GfEventService{Client: client, logger: logger}
}

// CreateEvent ensures the event variables and labels, then puts the entity type and an
// event type referencing all of them.
func (es *GfEventService) CreateEvent(ctx context.Context, req CreateEventRequest, variables features.FeatureVariables) (err error) {
	ctx, span := tracer.Start(ctx, "EventService.CreateEvent")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("event_type", req.EventTypeName))

	if err := validateRequest(req); err != nil {
		return &fraud_detection.ValidationError{Subject: "event request", Err: err}
	}

	eventVariables, err := variables.CreateOrRetrieveFeatures(ctx)
	if err != nil {
		return fmt.Errorf("failed to create event variables: %w", err)
	}
	labelSchema, err := variables.CreateOrRetrieveLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to create event labels: %w", err)
	}

	es.logger.Info("Creating entity type", zap.String("entity_type", req.EntityTypeName))
	_, err = es.Client.PutEntityType(ctx, &frauddetector.PutEntityTypeInput{
		Name:        aws.String(req.EntityTypeName),
		Description: aws.String(req.EntityTypeDescription),
	})
	if err != nil {
		return fmt.Errorf("failed to put entity type %s: %w", req.EntityTypeName, err)
	}

	es.logger.Info("Creating event type",
		zap.String("event_type", req.EventTypeName),
		zap.Strings("variables", eventVariables),
	)
	_, err = es.Client.PutEventType(ctx, &frauddetector.PutEventTypeInput{
		Name:           aws.String(req.EventTypeName),
		Description:    aws.String(req.EventDescription),
		EventVariables: eventVariables,
		Labels:         labelSchema.Labels(),
		EntityTypes:    []string{req.EntityTypeName},
	})
	if err != nil {
		return fmt.Errorf("failed to put event type %s: %w", req.EventTypeName, err)
	}
	return nil
}
