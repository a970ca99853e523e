package rules

import (
	"context"
	"fmt"
	"strconv"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
)

const (
	OutcomePositive    = "positive"
	OutcomeNoThreshold = "outcome_no_threshold"

	maxInsightScore = 1000
)

// ModelScorePositiveRule returns the positive outcome when the model score reaches the threshold.
type ModelScorePositiveRule struct {
	ID        string
	ModelName string
	Threshold float64
}

func NewModelScorePositiveRule(ruleID, modelName string, threshold float64) *ModelScorePositiveRule {
	return &ModelScorePositiveRule{ID: ruleID, ModelName: modelName, Threshold: threshold}
}

func (r *ModelScorePositiveRule) RuleID() string { return r.ID }

func (r *ModelScorePositiveRule) Description() string {
	return "Returns POSITIVE outcome if the model score is greater than threshold"
}

func (r *ModelScorePositiveRule) Outcomes() []string { return []string{OutcomePositive} }

func (r *ModelScorePositiveRule) Expression(ctx context.Context) (string, error) {
	return fmt.Sprintf("$%s >= %s", insightScoreVariable(r.ModelName), strconv.FormatFloat(r.Threshold, 'f', -1, 64)), nil
}

func (r *ModelScorePositiveRule) Validate() []string {
	problems := validateCommon(r.ID, r.Outcomes())
	if r.ModelName == "" {
		problems = append(problems, "model name is required")
	}
	if r.Threshold < 0 || r.Threshold > maxInsightScore {
		problems = append(problems, fmt.Sprintf("threshold %v must be between 0 and %d", r.Threshold, maxInsightScore))
	}
	return problems
}

// ModelScoreNoThresholdRule matches every scored event. It makes sure the model score
// variable exists before the expression referencing it is used.
type ModelScoreNoThresholdRule struct {
	ID        string
	ModelName string
	Utils     fraud_detection.FraudDetectorUtils
}

func NewModelScoreNoThresholdRule(ruleID, modelName string, utils fraud_detection.FraudDetectorUtils) *ModelScoreNoThresholdRule {
	return &ModelScoreNoThresholdRule{ID: ruleID, ModelName: modelName, Utils: utils}
}

func (r *ModelScoreNoThresholdRule) RuleID() string { return r.ID }

func (r *ModelScoreNoThresholdRule) Description() string {
	return "Returns outcome if the model score is greater than threshold"
}

func (r *ModelScoreNoThresholdRule) Outcomes() []string { return []string{OutcomeNoThreshold} }

func (r *ModelScoreNoThresholdRule) Expression(ctx context.Context) (string, error) {
	variable := insightScoreVariable(r.ModelName)

	_, err := r.Utils.TryCreateVariable(ctx, fraud_detection.VariableSpec{
		Name:         variable,
		VariableType: fraud_detection.VariableTypeNumeric,
		DataType:     fraud_detection.DataTypeFloat,
		DefaultValue: "0.0",
		Description:  "Model score variable",
		DataSource:   fraud_detection.DataSourceModelScore,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("$%s >= 0", variable), nil
}

func (r *ModelScoreNoThresholdRule) Validate() []string {
	problems := validateCommon(r.ID, r.Outcomes())
	if r.ModelName == "" {
		problems = append(problems, "model name is required")
	}
	if r.Utils == nil {
		problems = append(problems, "fraud detector utils are required to create the model score variable")
	}
	return problems
}
