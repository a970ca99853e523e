package models

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
)

// RuleRef is a rule version attached to a detector.
type RuleRef struct {
	RuleID      string `json:"ruleId"`
	DetectorID  string `json:"detectorId"`
	RuleVersion string `json:"ruleVersion"`
}

func (r RuleRef) ToRule() types.Rule {
	return types.Rule{
		RuleId:      aws.String(r.RuleID),
		DetectorId:  aws.String(r.DetectorID),
		RuleVersion: aws.String(r.RuleVersion),
	}
}
