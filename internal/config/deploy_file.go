package config

import (
	"fmt"
	"strings"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/rules"
	"github.com/spf13/viper"
)

// DeployFile is the deploy descriptor read by the deploy command.
type DeployFile struct {
	DetectorID          string                   `mapstructure:"detectorId"`
	DetectorDescription string                   `mapstructure:"detectorDescription"`
	EventTypeName       string                   `mapstructure:"eventTypeName"`
	RuleExecutionMode   string                   `mapstructure:"ruleExecutionMode"`
	Models              []models.ModelVersionRef `mapstructure:"models"`
	Rules               []rules.ExpressionRule   `mapstructure:"rules"`
	ScoreRules          []ScoreRuleConfig        `mapstructure:"scoreRules"`
}

// ScoreRuleConfig is a model score threshold rule. Without a threshold the rule matches every score.
type ScoreRuleConfig struct {
	RuleID    string   `mapstructure:"ruleId"`
	ModelName string   `mapstructure:"modelName"`
	Threshold *float64 `mapstructure:"threshold"`
}

// LoadDeployFile reads a YAML or JSON deploy descriptor. FD_DEPLOY_* variables override
// the top level scalar settings. Model version numbers are normalized to the N.N form.
func LoadDeployFile(path string) (*DeployFile, error) {
	v := viper.New()

	v.SetDefault("ruleExecutionMode", "FIRST_MATCHED")
	v.SetConfigFile(path)

	v.SetEnvPrefix("FD_DEPLOY")
	for _, key := range []string{"detectorId", "detectorDescription", "eventTypeName", "ruleExecutionMode"} {
		if err := v.BindEnv(key, "FD_DEPLOY_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read deploy file %s: %w", path, err)
	}

	var file DeployFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deploy file %s: %w", path, err)
	}

	// An unquoted YAML version such as 1.0 arrives here as "1".
	for i := range file.Models {
		version, err := models.NormalizeModelVersion(file.Models[i].VersionNumber)
		if err != nil {
			return nil, fmt.Errorf("deploy file %s, model %s: %w", path, file.Models[i].ModelID, err)
		}
		file.Models[i].VersionNumber = version
	}

	return &file, nil
}

// DetectorRules returns the score rules followed by the expression rules, in file order.
func (f *DeployFile) DetectorRules(utils fraud_detection.FraudDetectorUtils) []fraud_detection.DetectorRule {
	detectorRules := make([]fraud_detection.DetectorRule, 0, len(f.ScoreRules)+len(f.Rules))
	for _, sr := range f.ScoreRules {
		if sr.Threshold == nil {
			detectorRules = append(detectorRules, rules.NewModelScoreNoThresholdRule(sr.RuleID, sr.ModelName, utils))
			continue
		}
		detectorRules = append(detectorRules, rules.NewModelScorePositiveRule(sr.RuleID, sr.ModelName, *sr.Threshold))
	}
	for i := range f.Rules {
		detectorRules = append(detectorRules, &f.Rules[i])
	}
	return detectorRules
}
