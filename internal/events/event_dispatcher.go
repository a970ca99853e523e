package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/messaging"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
)

type EventDispatcher interface {
	DispatchPipelineEvent(ctx context.Context, event models.PipelineEvent) error
}

// GfEventDispatcher fans a pipeline event out to the configured channels. A nil channel is skipped.
type GfEventDispatcher struct {
	SNSMessenger messaging.SNSMessenger
	Queue        messaging.EventQueue
}

func NewGfEventDispatcher(snsMessenger messaging.SNSMessenger, queue messaging.EventQueue) *GfEventDispatcher {
	return &GfEventDispatcher{
		SNSMessenger: snsMessenger,
		Queue:        queue,
	}
}

func (dispatcher *GfEventDispatcher) DispatchPipelineEvent(ctx context.Context, event models.PipelineEvent) error {
	var errs []error

	if dispatcher.SNSMessenger != nil {
		if _, err := dispatcher.SNSMessenger.PublishPipelineEvent(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("error publishing %s event: %w", event.Action, err))
		}
	}
	if dispatcher.Queue != nil {
		if err := dispatcher.Queue.SendPipelineEvent(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("error queueing %s event: %w", event.Action, err))
		}
	}

	return errors.Join(errs...)
}
