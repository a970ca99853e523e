package services

import (
	"context"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/db"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/events"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/CapitalOne-RedFlags/GreenFlagML/internal/services")

// LifecycleRecorder publishes completed pipeline steps to the notification channels and the
// audit ledger. Both are optional and write only; a failure is logged and never fails the step.
type LifecycleRecorder struct {
	Dispatcher events.EventDispatcher
	Repository db.DeploymentRepository
	logger     *zap.Logger
	newID      func() string
	now        func() time.Time
}

func NewLifecycleRecorder(dispatcher events.EventDispatcher, repository db.DeploymentRepository, logger *zap.Logger) *LifecycleRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleRecorder{
		Dispatcher: dispatcher,
		Repository: repository,
		logger:     logger,
		newID:      func() string { return uuid.New().String() },
		now:        time.Now,
	}
}

func (r *LifecycleRecorder) Record(ctx context.Context, event models.PipelineEvent) {
	if r == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = r.newID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now().UTC()
	}

	if r.Repository != nil {
		if err := r.Repository.SaveEvent(ctx, &event); err != nil {
			r.logger.Warn("Failed to write pipeline event to ledger",
				zap.String("action", string(event.Action)), zap.Error(err))
		}
	}
	if r.Dispatcher != nil {
		if err := r.Dispatcher.DispatchPipelineEvent(ctx, event); err != nil {
			r.logger.Warn("Failed to dispatch pipeline event",
				zap.String("action", string(event.Action)), zap.Error(err))
		}
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
