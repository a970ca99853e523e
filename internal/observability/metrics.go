package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
	"go.uber.org/zap"
)

// Metadata and annotation keys recorded on the job bridge segments
const (
	KeyJobID           = "JobID"
	KeyTrainingType    = "TrainingType"
	KeyTrainingJobName = "TrainingJobName"
	KeyModelVersion    = "ModelVersion"
	KeyModelStatus     = "ModelStatus"
	KeyJobOutcome      = "JobOutcome"
	KeyContinuation    = "HasContinuationToken"
)

// SafeAddMetadata adds metadata to an X-Ray segment with error handling
func SafeAddMetadata(logger *zap.Logger, seg *xray.Segment, key string, value interface{}) {
	if seg == nil {
		return
	}
	if err := seg.AddMetadata(key, value); err != nil {
		logger.Warn("Failed to add segment metadata", zap.String("key", key), zap.Error(err))
	}
}

// SafeAddError adds an error to an X-Ray segment with error handling
func SafeAddError(logger *zap.Logger, seg *xray.Segment, err error) {
	if seg == nil {
		return
	}
	if addErr := seg.AddError(err); addErr != nil {
		logger.Warn("Failed to add error to segment", zap.Error(addErr))
	}
}

// SafeAddAnnotation adds an annotation to X-Ray context with error handling
func SafeAddAnnotation(logger *zap.Logger, ctx context.Context, key string, value string) {
	if err := xray.AddAnnotation(ctx, key, value); err != nil {
		logger.Debug("Failed to add annotation", zap.String("key", key), zap.Error(err))
	}
}
