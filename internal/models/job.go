package models

import (
	"encoding/json"
	"fmt"
)

// TrainingJobParameters are the CodePipeline user parameters of a long polling training action.
// The raw JSON is echoed back to CodePipeline as the continuation token.
type TrainingJobParameters struct {
	TrainingType       string `json:"training_type"`
	TrainingJobName    string `json:"training_job_name" validate:"required"`
	TrainingJobVersion string `json:"training_job_version" validate:"required"`
	AssumeRole         string `json:"assume_role" validate:"required"`
	ModelType          string `json:"model_type,omitempty"`
}

func (p TrainingJobParameters) Validate() error {
	return validateStruct(p)
}

func UnmarshalJobParameters(raw string) (*TrainingJobParameters, error) {
	var params TrainingJobParameters
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("failed to parse job parameters: %w", err)
	}
	return &params, nil
}
