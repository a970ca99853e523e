package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestModelScorePositiveRule(t *testing.T) {
	rule := NewModelScorePositiveRule("positivescorerule", "demo_model", 950)

	expression, err := rule.Expression(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "$demo_model_insightscore >= 950", expression)
	assert.Equal(t, []string{OutcomePositive}, rule.Outcomes())
	assert.Empty(t, rule.Validate())
	assert.NoError(t, CheckExpression(expression))
}

func TestModelScorePositiveRuleValidate(t *testing.T) {
	tests := []struct {
		name      string
		rule      *ModelScorePositiveRule
		wantCount int
	}{
		{"valid upper bound", NewModelScorePositiveRule("r1", "m", maxInsightScore), 0},
		{"threshold too high", NewModelScorePositiveRule("r1", "m", 1001), 1},
		{"negative threshold", NewModelScorePositiveRule("r1", "m", -1), 1},
		{"missing model", NewModelScorePositiveRule("r1", "", 10), 1},
		{"bad id and missing model", NewModelScorePositiveRule("Rule One", "", 10), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.rule.Validate(), tt.wantCount)
		})
	}
}

func TestModelScoreNoThresholdRuleCreatesScoreVariable(t *testing.T) {
	// Arrange
	utils := new(testutil.MockFraudDetectorUtils)
	utils.On("TryCreateVariable", mock.Anything, mock.MatchedBy(func(spec fraud_detection.VariableSpec) bool {
		return spec.Name == "demo_model_insightscore" &&
			spec.DataSource == fraud_detection.DataSourceModelScore &&
			spec.DataType == fraud_detection.DataTypeFloat
	})).Return("demo_model_insightscore", nil).Once()
	rule := NewModelScoreNoThresholdRule("noscorerule", "demo_model", utils)

	// Act
	expression, err := rule.Expression(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "$demo_model_insightscore >= 0", expression)
	assert.Empty(t, rule.Validate())
	utils.AssertExpectations(t)
}

func TestModelScoreNoThresholdRuleVariableFailure(t *testing.T) {
	utils := new(testutil.MockFraudDetectorUtils)
	conflict := &fraud_detection.ConflictError{Resource: "variable", Name: "demo_model_insightscore"}
	utils.On("TryCreateVariable", mock.Anything, mock.Anything).Return("", conflict).Once()
	rule := NewModelScoreNoThresholdRule("noscorerule", "demo_model", utils)

	_, err := rule.Expression(context.Background())

	assert.True(t, errors.Is(err, conflict))
}

func TestModelScoreNoThresholdRuleNeedsUtils(t *testing.T) {
	rule := NewModelScoreNoThresholdRule("noscorerule", "demo_model", nil)

	assert.Len(t, rule.Validate(), 1)
}

func TestCheckExpression(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{"comparison", "$amount >= 100", false},
		{"word operators", "$amount > 5 and not ($email_address == 'a@b.c' or $ip_address == '1.2.3.4')", false},
		{"dollar inside string literal", `$note == "$5 off"`, false},
		{"no variables", "1 >= 0", true},
		{"unknown identifier", "$amount >= threshold", true},
		{"syntax error", "$amount >=", true},
		{"not a boolean", "$amount > 1 ? 'high' : 'low'", true},
		{"service function", `regex_match($email, ".*@example\\.com")`, false},
		{"function in a condition", `$country in ["US", "CA"] and lower($email) == "a@b.c"`, false},
		{"function called with two arities", "score($amount) > 1 and score($amount, 2) > 1", false},
		{"unknown identifier next to a function", "regex_match($email, pattern)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpression(tt.expression)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTranslateExpression(t *testing.T) {
	translated, variables := translateExpression(`$a > 1 AND $b == "and $c"`)

	assert.Equal(t, `a > 1 && b == "and $c"`, translated)
	assert.Equal(t, []string{"a", "b"}, variables)
}

func TestExpressionRuleValidate(t *testing.T) {
	valid := &ExpressionRule{ID: "high_amount", Desc: "high amount", Expr: "$amount > 100", RuleOutcomes: []string{"review"}}
	assert.Empty(t, valid.Validate())

	noExpression := &ExpressionRule{ID: "high_amount", RuleOutcomes: []string{"review"}}
	assert.Equal(t, []string{"expression is required"}, noExpression.Validate())

	badEverything := &ExpressionRule{ID: "High Amount", Expr: "$amount >", RuleOutcomes: nil}
	assert.Len(t, badEverything.Validate(), 3)
}

func TestCalledFunctions(t *testing.T) {
	calls := calledFunctions(`regex_match(email, "x(y, z") and f() and g(a, [1, 2], h(b)) and email.startsWith("a")`)

	assert.Equal(t, map[string][]int{
		"regex_match": {2},
		"f":           {0},
		"g":           {3},
		"h":           {1},
	}, calls)
}
