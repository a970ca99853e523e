// Package rules holds the detector rules the pipeline deploys.
package rules

import (
	"fmt"
	"regexp"
)

var ruleIDPattern = regexp.MustCompile(`^[0-9a-z_-]+$`)

// insightScoreVariable is the variable Fraud Detector fills with a model's score.
func insightScoreVariable(modelName string) string {
	return fmt.Sprintf("%s_insightscore", modelName)
}

func validateCommon(ruleID string, outcomes []string) []string {
	var problems []string
	if !ruleIDPattern.MatchString(ruleID) {
		problems = append(problems, fmt.Sprintf("rule id %q must match %s", ruleID, ruleIDPattern.String()))
	}
	if len(outcomes) == 0 {
		problems = append(problems, "at least one outcome is required")
	}
	for _, o := range outcomes {
		if !ruleIDPattern.MatchString(o) {
			problems = append(problems, fmt.Sprintf("outcome %q must match %s", o, ruleIDPattern.String()))
		}
	}
	return problems
}
