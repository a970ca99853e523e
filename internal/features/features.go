// Package features provides the event variables and label schemas a model is trained on.
package features

import (
	"context"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
)

// FeatureVariables ensures the event variables and labels used for training exist
// in Fraud Detector and returns their names.
type FeatureVariables interface {
	CreateOrRetrieveFeatures(ctx context.Context) ([]string, error)
	CreateOrRetrieveLabels(ctx context.Context) (models.LabelSchema, error)
}
