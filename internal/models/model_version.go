package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
)

const ModelTypeOnlineFraudInsights = "ONLINE_FRAUD_INSIGHTS"

// ModelVersionRef identifies a trained model version to attach to a detector.
type ModelVersionRef struct {
	ModelID       string `json:"modelId" mapstructure:"modelId" validate:"required"`
	ModelType     string `json:"modelType" mapstructure:"modelType" validate:"required"`
	VersionNumber string `json:"modelVersionNumber" mapstructure:"modelVersionNumber" validate:"required"`
	Description   string `json:"modelDescription,omitempty" mapstructure:"modelDescription"`
}

func (m ModelVersionRef) Validate() error {
	return validateStruct(m)
}

// ToDetectorModelVersion drops the description, which detector versions do not accept.
func (m ModelVersionRef) ToDetectorModelVersion() types.ModelVersion {
	return types.ModelVersion{
		ModelId:            aws.String(m.ModelID),
		ModelType:          types.ModelTypeEnum(m.ModelType),
		ModelVersionNumber: aws.String(m.VersionNumber),
	}
}

// NormalizeModelVersion formats a model version number the way the service reports it, e.g. "1" as "1.0".
func NormalizeModelVersion(version string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(version), 64)
	if err != nil || v <= 0 {
		return "", fmt.Errorf("invalid model version %q", version)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}
