package models

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModelVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1", want: "1.0"},
		{in: "1.0", want: "1.0"},
		{in: " 2 ", want: "2.0"},
		{in: "3.25", want: "3.25"},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "latest", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeModelVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalJobParameters(t *testing.T) {
	raw := `{"training_type":"frauddetector","training_job_name":"demo_model","training_job_version":"1.0","assume_role":"arn:aws:iam::123456789012:role/x"}`

	params, err := UnmarshalJobParameters(raw)

	require.NoError(t, err)
	assert.Equal(t, "frauddetector", params.TrainingType)
	assert.Equal(t, "demo_model", params.TrainingJobName)
	assert.NoError(t, params.Validate())
}

func TestJobParametersValidation(t *testing.T) {
	params, err := UnmarshalJobParameters(`{"training_type":"frauddetector","training_job_name":"demo_model"}`)
	require.NoError(t, err)

	assert.Error(t, params.Validate())

	_, err = UnmarshalJobParameters("{")
	assert.Error(t, err)
}

func TestModelVersionRef(t *testing.T) {
	ref := ModelVersionRef{
		ModelID:       "demo_model",
		ModelType:     ModelTypeOnlineFraudInsights,
		VersionNumber: "1.0",
		Description:   "dropped",
	}

	require.NoError(t, ref.Validate())
	mv := ref.ToDetectorModelVersion()
	assert.Equal(t, "demo_model", aws.ToString(mv.ModelId))
	assert.Equal(t, "1.0", aws.ToString(mv.ModelVersionNumber))
	assert.Equal(t, ModelTypeOnlineFraudInsights, string(mv.ModelType))

	ref.VersionNumber = ""
	assert.Error(t, ref.Validate())
}

func TestLabelSchemaLabels(t *testing.T) {
	schema := LabelSchema{LabelKeyFraud: {"fraud", "chargeback"}, LabelKeyLegit: {"legit"}}

	assert.Equal(t, []string{"legit", "fraud", "chargeback"}, schema.Labels())
}

func TestPredictionRequestValidate(t *testing.T) {
	req := PredictionRequest{
		DetectorID:    "demo_detector",
		EventID:       gofakeit.UUID(),
		EventTypeName: "demoevent",
		EntityType:    "democustomer",
		EntityID:      "unknown",
		Variables:     map[string]string{"email": gofakeit.Email()},
	}
	assert.NoError(t, req.Validate())

	req.Variables = map[string]string{}
	assert.Error(t, req.Validate())
}

func TestPipelineEventSubject(t *testing.T) {
	assert.Equal(t, "Fraud model undeployed: demo_model",
		PipelineEvent{Action: ActionModelUndeployed, ModelID: "demo_model"}.Subject())
	assert.Equal(t, "Fraud pipeline event", PipelineEvent{}.Subject())
}
