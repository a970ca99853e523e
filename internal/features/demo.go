package features

import (
	"context"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
)

const (
	demoFraudLabel = "1"
	demoLegitLabel = "0"
)

// DemoFeatureVariables is the minimal schema required by the online fraud insights model type:
// an email and an ip variable, with "1" as fraud and "0" as legit.
type DemoFeatureVariables struct {
	Utils fraud_detection.FraudDetectorUtils
}

func NewDemoFeatureVariables(utils fraud_detection.FraudDetectorUtils) *DemoFeatureVariables {
	return &DemoFeatureVariables{Utils: utils}
}

func (d *DemoFeatureVariables) featureDetails() []fraud_detection.VariableSpec {
	return []fraud_detection.VariableSpec{
		{
			Name:         "email",
			VariableType: fraud_detection.VariableTypeEmail,
			DataType:     fraud_detection.DataTypeString,
			Description:  "Email address",
		},
		{
			Name:         "ip",
			VariableType: fraud_detection.VariableTypeIP,
			DataType:     fraud_detection.DataTypeString,
			Description:  "IP address",
		},
	}
}

func (d *DemoFeatureVariables) CreateOrRetrieveFeatures(ctx context.Context) ([]string, error) {
	var names []string
	for _, spec := range d.featureDetails() {
		name, err := d.Utils.TryCreateVariable(ctx, spec)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (d *DemoFeatureVariables) CreateOrRetrieveLabels(ctx context.Context) (models.LabelSchema, error) {
	if _, err := d.Utils.CreateOrUpdateLabel(ctx, demoFraudLabel, "Fraud flag"); err != nil {
		return nil, err
	}
	if _, err := d.Utils.CreateOrUpdateLabel(ctx, demoLegitLabel, "Legit flag"); err != nil {
		return nil, err
	}

	return models.LabelSchema{
		models.LabelKeyFraud: {demoFraudLabel},
		models.LabelKeyLegit: {demoLegitLabel},
	}, nil
}
