package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/rules"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/testutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const deployYAML = `
detectorId: demo_detector
detectorDescription: demo detector
eventTypeName: demoevent
models:
  - modelId: demo_model
    modelType: ONLINE_FRAUD_INSIGHTS
    modelVersionNumber: "1.0"
scoreRules:
  - ruleId: positivescorerule
    modelName: demo_model
    threshold: 950
  - ruleId: anyscorerule
    modelName: demo_model
rules:
  - ruleId: high_amount
    description: high amount
    expression: $amount > 100
    outcomes: [review]
`

func writeDeployFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(deployYAML), 0o600))
	return path
}

func TestLoadDeployFile(t *testing.T) {
	// Act
	file, err := LoadDeployFile(writeDeployFile(t))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "demo_detector", file.DetectorID)
	assert.Equal(t, "FIRST_MATCHED", file.RuleExecutionMode)
	require.Len(t, file.Models, 1)
	assert.Equal(t, "1.0", file.Models[0].VersionNumber)
	require.Len(t, file.ScoreRules, 2)
	require.NotNil(t, file.ScoreRules[0].Threshold)
	assert.Equal(t, 950.0, *file.ScoreRules[0].Threshold)
	assert.Nil(t, file.ScoreRules[1].Threshold)
	require.Len(t, file.Rules, 1)
	assert.Equal(t, []string{"review"}, file.Rules[0].RuleOutcomes)
}

func TestLoadDeployFileEnvOverride(t *testing.T) {
	t.Setenv("FD_DEPLOY_DETECTORID", "override_detector")
	t.Setenv("FD_DEPLOY_RULEEXECUTIONMODE", "ALL_MATCHED")

	file, err := LoadDeployFile(writeDeployFile(t))

	require.NoError(t, err)
	assert.Equal(t, "override_detector", file.DetectorID)
	assert.Equal(t, "ALL_MATCHED", file.RuleExecutionMode)
}

func TestLoadDeployFileUnquotedModelVersion(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	content := `
detectorId: demo_detector
eventTypeName: demoevent
models:
  - modelId: demo_model
    modelType: ONLINE_FRAUD_INSIGHTS
    modelVersionNumber: 1.0
  - modelId: other_model
    modelType: ONLINE_FRAUD_INSIGHTS
    modelVersionNumber: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Act
	file, err := LoadDeployFile(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, file.Models, 2)
	assert.Equal(t, "1.0", file.Models[0].VersionNumber)
	assert.Equal(t, "2.0", file.Models[1].VersionNumber)
	assert.NoError(t, file.Models[0].Validate())
}

func TestLoadDeployFileInvalidModelVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	content := `
detectorId: demo_detector
models:
  - modelId: demo_model
    modelType: ONLINE_FRAUD_INSIGHTS
    modelVersionNumber: latest
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadDeployFile(path)

	assert.ErrorContains(t, err, "demo_model")
}

func TestLoadDeployFileMissing(t *testing.T) {
	_, err := LoadDeployFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestDetectorRules(t *testing.T) {
	file, err := LoadDeployFile(writeDeployFile(t))
	require.NoError(t, err)
	utils := new(testutil.MockFraudDetectorUtils)

	detectorRules := file.DetectorRules(utils)

	require.Len(t, detectorRules, 3)
	assert.IsType(t, &rules.ModelScorePositiveRule{}, detectorRules[0])
	assert.IsType(t, &rules.ModelScoreNoThresholdRule{}, detectorRules[1])
	assert.IsType(t, &rules.ExpressionRule{}, detectorRules[2])
	assert.Equal(t, "high_amount", detectorRules[2].RuleID())
	for _, r := range detectorRules {
		assert.Empty(t, r.Validate(), r.RuleID())
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("FD_TEST_INTERVAL", "5s")
	assert.Equal(t, 5*time.Second, GetDurationEnv("FD_TEST_INTERVAL", time.Minute))

	t.Setenv("FD_TEST_INTERVAL", "soon")
	assert.Equal(t, time.Minute, GetDurationEnv("FD_TEST_INTERVAL", time.Minute))

	assert.Equal(t, time.Minute, GetDurationEnv("FD_TEST_UNSET_INTERVAL", time.Minute))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FD_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("FD_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FD_TEST_UNSET_VALUE", "fallback"))
}

type MockSecretsManager struct {
	mock.Mock
}

func (m *MockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestLoadPipelineSecrets(t *testing.T) {
	svc := new(MockSecretsManager)
	svc.On("GetSecretValue", mock.Anything, mock.MatchedBy(func(in *secretsmanager.GetSecretValueInput) bool {
		return aws.ToString(in.SecretId) == "fd/pipeline"
	})).Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"dataAccessRoleArn":"arn:data","crossAccountRoleArn":"arn:cross"}`),
	}, nil).Once()

	secrets, err := LoadPipelineSecrets(context.Background(), svc, "fd/pipeline")

	require.NoError(t, err)
	assert.Equal(t, "arn:data", secrets.DataAccessRoleArn)
	assert.Equal(t, "arn:cross", secrets.CrossAccountRoleArn)
}

func TestLoadPipelineSecretsErrors(t *testing.T) {
	tests := []struct {
		name string
		out  *secretsmanager.GetSecretValueOutput
		err  error
	}{
		{"client error", nil, errors.New("access denied")},
		{"binary secret", &secretsmanager.GetSecretValueOutput{}, nil},
		{"bad json", &secretsmanager.GetSecretValueOutput{SecretString: aws.String("{")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSecretsManager)
			svc.On("GetSecretValue", mock.Anything, mock.Anything).Return(tt.out, tt.err).Once()

			_, err := LoadPipelineSecrets(context.Background(), svc, "fd/pipeline")

			assert.Error(t, err)
		})
	}
}
