package fraud_detection

import (
	"context"
	"fmt"
	"strconv"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector"
	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
	"go.uber.org/zap"
)

const (
	DataSourceEvent      = "EVENT"
	DataSourceModelScore = "MODEL_SCORE"

	DataTypeString = "STRING"
	DataTypeFloat  = "FLOAT"

	VariableTypeEmail       = "EMAIL_ADDRESS"
	VariableTypeIP          = "IP_ADDRESS"
	VariableTypeNumeric     = "NUMERIC"
	VariableTypeCategorical = "CATEGORICAL"
	VariableTypeFreeText    = "FREE_FORM_TEXT"

	RuleLanguage = types.LanguageDetectorpl

	ModelStatusTrainingComplete = "TRAINING_COMPLETE"
	ModelStatusActive           = "ACTIVE"
	ModelStatusInactive         = "INACTIVE"
	ModelStatusError            = "ERROR"
)

// VariableSpec describes a variable to create or validate.
type VariableSpec struct {
	Name         string
	VariableType string
	DataType     string
	DefaultValue string
	Description  string
	// DataSource defaults to EVENT when empty.
	DataSource string
}

// DetectorRule is a named, versioned rule attached to a detector.
type DetectorRule interface {
	RuleID() string
	Description() string
	Outcomes() []string
	// Expression returns the rule expression. Implementations may ensure
	// the variables they reference exist first.
	Expression(ctx context.Context) (string, error)
	// Validate returns the problems with the rule, or nil when it is valid.
	Validate() []string
}

// FraudDetectorUtils holds the create-or-update primitives shared by training, deploy and undeploy.
type FraudDetectorUtils interface {
	TryCreateVariable(ctx context.Context, spec VariableSpec) (string, error)
	CreateOrUpdateLabel(ctx context.Context, label, description string) (string, error)
	CreateOrUpdateRule(ctx context.Context, detectorID string, rule DetectorRule) (models.RuleRef, error)
	WaitUntilModelStatus(ctx context.Context, modelID, modelVersion, modelType string, failStates, successStates []string) error
}

type GfFraudDetectorUtils struct {
	Client FraudDetectorAPI
	Poller *StatusPoller
	logger *zap.Logger
}

func NewFraudDetectorUtils(client FraudDetectorAPI, poller *StatusPoller, logger *zap.Logger) *GfFraudDetectorUtils {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poller == nil {
		poller = NewStatusPoller(logger, DefaultPollInterval)
	}
	return &GfFraudDetectorUtils{
		Client: client,
		Poller: poller,
		logger: logger,
	}
}

// TryCreateVariable creates the variable unless it already exists. An existing variable
// must match the requested data type, data source, variable type and default value,
// otherwise a *ConflictError is returned and nothing is changed.
func (u *GfFraudDetectorUtils) TryCreateVariable(ctx context.Context, spec VariableSpec) (string, error) {
	dataSource := spec.DataSource
	if dataSource == "" {
		dataSource = DataSourceEvent
	}

	resp, err := u.Client.GetVariables(ctx, &frauddetector.GetVariablesInput{
		Name: aws.String(spec.Name),
	})
	if err != nil {
		if !IsNotFound(err) {
			return "", fmt.Errorf("failed to get variable %s: %w", spec.Name, err)
		}

		u.logger.Info("Creating variable", zap.String("variable", spec.Name))
		_, err = u.Client.CreateVariable(ctx, &frauddetector.CreateVariableInput{
			Name:         aws.String(spec.Name),
			DataType:     types.DataType(spec.DataType),
			DataSource:   types.DataSource(dataSource),
			DefaultValue: aws.String(spec.DefaultValue),
			Description:  aws.String(spec.Description),
			VariableType: aws.String(spec.VariableType),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create variable %s: %w", spec.Name, err)
		}
		return spec.Name, nil
	}

	u.logger.Info("Existing variable", zap.String("variable", spec.Name))
	if len(resp.Variables) != 1 {
		return "", &IntegrityError{Message: fmt.Sprintf("expected exactly one variable named %s, got %d", spec.Name, len(resp.Variables))}
	}

	existing := resp.Variables[0]
	var mismatches []FieldMismatch
	compare := func(field, have, want string) {
		if have != want {
			mismatches = append(mismatches, FieldMismatch{Field: field, Existing: have, Requested: want})
		}
	}
	compare("dataType", string(existing.DataType), spec.DataType)
	compare("dataSource", string(existing.DataSource), dataSource)
	compare("variableType", aws.ToString(existing.VariableType), spec.VariableType)
	compare("defaultValue", aws.ToString(existing.DefaultValue), spec.DefaultValue)

	if len(mismatches) > 0 {
		return "", &ConflictError{Resource: "variable", Name: spec.Name, Mismatches: mismatches}
	}

	return spec.Name, nil
}

func (u *GfFraudDetectorUtils) CreateOrUpdateLabel(ctx context.Context, label, description string) (string, error) {
	u.logger.Info("Creating label", zap.String("label", label))
	_, err := u.Client.PutLabel(ctx, &frauddetector.PutLabelInput{
		Name:        aws.String(label),
		Description: aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put label %s: %w", label, err)
	}
	return label, nil
}

// CreateOrUpdateRule creates the rule when no version exists for it on the detector,
// otherwise it updates the highest existing version.
func (u *GfFraudDetectorUtils) CreateOrUpdateRule(ctx context.Context, detectorID string, rule DetectorRule) (models.RuleRef, error) {
	ruleID := rule.RuleID()

	maxVersion, found, err := u.MaxRuleVersion(ctx, detectorID, ruleID)
	if err != nil {
		return models.RuleRef{}, err
	}

	expression, err := rule.Expression(ctx)
	if err != nil {
		return models.RuleRef{}, fmt.Errorf("failed to build expression for rule %s: %w", ruleID, err)
	}

	var updated *types.Rule
	if found {
		u.logger.Info("Rule exists, updating",
			zap.String("rule_id", ruleID),
			zap.Int("version", maxVersion),
		)
		resp, err := u.Client.UpdateRuleVersion(ctx, &frauddetector.UpdateRuleVersionInput{
			Rule: &types.Rule{
				RuleId:      aws.String(ruleID),
				DetectorId:  aws.String(detectorID),
				RuleVersion: aws.String(strconv.Itoa(maxVersion)),
			},
			Description: aws.String(rule.Description()),
			Expression:  aws.String(expression),
			Language:    RuleLanguage,
			Outcomes:    rule.Outcomes(),
		})
		if err != nil {
			return models.RuleRef{}, fmt.Errorf("failed to update rule %s: %w", ruleID, err)
		}
		updated = resp.Rule
	} else {
		u.logger.Info("No rule found, creating", zap.String("rule_id", ruleID))
		resp, err := u.Client.CreateRule(ctx, &frauddetector.CreateRuleInput{
			RuleId:      aws.String(ruleID),
			DetectorId:  aws.String(detectorID),
			Description: aws.String(rule.Description()),
			Expression:  aws.String(expression),
			Language:    RuleLanguage,
			Outcomes:    rule.Outcomes(),
		})
		if err != nil {
			return models.RuleRef{}, fmt.Errorf("failed to create rule %s: %w", ruleID, err)
		}
		updated = resp.Rule
	}

	if updated == nil || updated.RuleVersion == nil {
		return models.RuleRef{}, &IntegrityError{Message: fmt.Sprintf("no rule version returned for rule %s", ruleID)}
	}

	return models.RuleRef{
		RuleID:      ruleID,
		DetectorID:  detectorID,
		RuleVersion: aws.ToString(updated.RuleVersion),
	}, nil
}

// MaxRuleVersion pages through every version of the rule and returns the highest.
// found is false when the first page holds no rule details. Paging stops at an
// empty page or when no next token is returned.
func (u *GfFraudDetectorUtils) MaxRuleVersion(ctx context.Context, detectorID, ruleID string) (maxVersion int, found bool, err error) {
	var maxSeen float64
	var nextToken *string

	for page := 0; ; page++ {
		resp, err := u.Client.GetRules(ctx, &frauddetector.GetRulesInput{
			DetectorId: aws.String(detectorID),
			RuleId:     aws.String(ruleID),
			NextToken:  nextToken,
		})
		if err != nil {
			if page == 0 && IsNotFound(err) {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("failed to get rules for %s/%s: %w", detectorID, ruleID, err)
		}

		if len(resp.RuleDetails) == 0 {
			if page == 0 {
				return 0, false, nil
			}
			break
		}

		for _, detail := range resp.RuleDetails {
			version, err := strconv.ParseFloat(aws.ToString(detail.RuleVersion), 64)
			if err != nil {
				return 0, false, &IntegrityError{Message: fmt.Sprintf("rule %s has non numeric version %q", ruleID, aws.ToString(detail.RuleVersion))}
			}
			if version > maxSeen {
				maxSeen = version
			}
		}

		if aws.ToString(resp.NextToken) == "" {
			break
		}
		nextToken = resp.NextToken
	}

	return int(maxSeen), true, nil
}

// WaitUntilModelStatus polls the model version until it reaches one of the given states.
func (u *GfFraudDetectorUtils) WaitUntilModelStatus(ctx context.Context, modelID, modelVersion, modelType string, failStates, successStates []string) error {
	fetch := func(ctx context.Context) (string, any, error) {
		resp, err := u.Client.GetModelVersion(ctx, &frauddetector.GetModelVersionInput{
			ModelId:            aws.String(modelID),
			ModelType:          types.ModelTypeEnum(modelType),
			ModelVersionNumber: aws.String(modelVersion),
		})
		if err != nil {
			return "", nil, fmt.Errorf("failed to get model version %s/%s: %w", modelID, modelVersion, err)
		}
		return aws.ToString(resp.Status), resp, nil
	}

	_, err := u.Poller.Poll(ctx, fetch, failStates, successStates)
	return err
}
