package features

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"
)

const (
	ColumnEventLabel     = "EVENT_LABEL"
	ColumnEventTimestamp = "EVENT_TIMESTAMP"
)

var (
	emailPattern = regexp.MustCompile(`^([a-z0-9._A-Z])+@(\w+\.\w+)+$`)
	ipPattern    = regexp.MustCompile(`^([0-9]{1,3}\.){3}[0-9]{1,3}$`)
)

var dataTypeByVariableType = map[string]string{
	fraud_detection.VariableTypeFreeText: fraud_detection.DataTypeString,
	fraud_detection.VariableTypeNumeric:  fraud_detection.DataTypeFloat,
}

// FieldSettings overrides what is inferred for a column. Empty values keep the inferred ones.
type FieldSettings struct {
	Description  string  `mapstructure:"desc"`
	VariableType string  `mapstructure:"variableType"`
	Default      *string `mapstructure:"default"`
}

type columnKind int

const (
	kindString columnKind = iota
	kindNumeric
	kindCategorical
)

type column struct {
	name  string
	kind  columnKind
	first string
}

// DynamicFeatureVariables infers the variable type of every column of a CSV sample of the
// training data. Checks run in priority order: email, ip, numeric, categorical, and free
// text when none match.
type DynamicFeatureVariables struct {
	Utils      fraud_detection.FraudDetectorUtils
	TrueLabels []string
	Settings   map[string]FieldSettings

	columns []column
	labels  []string
}

// NewDynamicFeatureVariables reads the sample. Columns listed in categorical are treated as
// categorical data since CSV carries no column types.
func NewDynamicFeatureVariables(sample io.Reader, trueLabels []string, settings map[string]FieldSettings, categorical []string, utils fraud_detection.FraudDetectorUtils) (*DynamicFeatureVariables, error) {
	records, err := csv.NewReader(sample).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample data: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("sample data needs a header and at least one row")
	}

	header := records[0]
	rows := records[1:]

	labelIdx := slices.Index(header, ColumnEventLabel)
	if labelIdx < 0 {
		return nil, fmt.Errorf("sample data has no %s column", ColumnEventLabel)
	}

	d := &DynamicFeatureVariables{
		Utils:      utils,
		TrueLabels: trueLabels,
		Settings:   settings,
	}
	if d.Settings == nil {
		d.Settings = map[string]FieldSettings{}
	}

	seenLabels := map[string]bool{}
	for _, row := range rows {
		label := row[labelIdx]
		if !seenLabels[label] {
			seenLabels[label] = true
			d.labels = append(d.labels, label)
		}
	}

	for idx, name := range header {
		if name == ColumnEventLabel || name == ColumnEventTimestamp {
			continue
		}
		col := column{name: name, kind: inferKind(rows, idx), first: rows[0][idx]}
		if slices.Contains(categorical, name) {
			col.kind = kindCategorical
		}
		d.columns = append(d.columns, col)
	}
	sort.Slice(d.columns, func(i, j int) bool { return d.columns[i].name < d.columns[j].name })

	return d, nil
}

func inferKind(rows [][]string, idx int) columnKind {
	numeric := false
	for _, row := range rows {
		value := strings.TrimSpace(row[idx])
		if value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return kindString
		}
		numeric = true
	}
	if numeric {
		return kindNumeric
	}
	return kindString
}

type typeCheck func(col column) (variableType, defaultValue string, ok bool)

func isEmail(col column) (string, string, bool) {
	if col.kind != kindString {
		return "", "", false
	}
	if strings.Contains(strings.ToLower(col.name), "email") || emailPattern.MatchString(strings.ToLower(col.first)) {
		return fraud_detection.VariableTypeEmail, "", true
	}
	return "", "", false
}

func isIP(col column) (string, string, bool) {
	if col.kind != kindString {
		return "", "", false
	}
	if strings.Contains(strings.ToLower(col.name), "ip_addr") || ipPattern.MatchString(col.first) {
		return fraud_detection.VariableTypeIP, "", true
	}
	return "", "", false
}

func isNumeric(col column) (string, string, bool) {
	if col.kind == kindNumeric {
		return fraud_detection.VariableTypeNumeric, "0.0", true
	}
	return "", "", false
}

func isCategorical(col column) (string, string, bool) {
	if col.kind == kindCategorical {
		return fraud_detection.VariableTypeCategorical, "", true
	}
	return "", "", false
}

// VariableSpecs returns the variables that CreateOrRetrieveFeatures will ensure, in name order.
func (d *DynamicFeatureVariables) VariableSpecs() []fraud_detection.VariableSpec {
	checks := []typeCheck{isEmail, isIP, isNumeric, isCategorical}

	specs := make([]fraud_detection.VariableSpec, 0, len(d.columns))
	for _, col := range d.columns {
		variableType, defaultValue := fraud_detection.VariableTypeFreeText, ""
		for _, check := range checks {
			if vt, dv, ok := check(col); ok {
				variableType, defaultValue = vt, dv
				break
			}
		}

		description := col.name
		if s, ok := d.Settings[col.name]; ok {
			if s.Default != nil {
				defaultValue = *s.Default
			}
			if s.VariableType != "" {
				variableType = s.VariableType
			}
			if s.Description != "" {
				description = s.Description
			}
		}

		dataType, ok := dataTypeByVariableType[variableType]
		if !ok {
			dataType = fraud_detection.DataTypeString
		}

		specs = append(specs, fraud_detection.VariableSpec{
			Name:         col.name,
			VariableType: variableType,
			DataType:     dataType,
			DefaultValue: defaultValue,
			Description:  description,
		})
	}
	return specs
}

func (d *DynamicFeatureVariables) CreateOrRetrieveFeatures(ctx context.Context) ([]string, error) {
	var names []string
	for _, spec := range d.VariableSpecs() {
		name, err := d.Utils.TryCreateVariable(ctx, spec)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// CreateOrRetrieveLabels puts every label value seen in the sample plus the configured
// fraud labels. Values not listed as fraud are legit.
func (d *DynamicFeatureVariables) CreateOrRetrieveLabels(ctx context.Context) (models.LabelSchema, error) {
	var legit []string
	for _, l := range d.labels {
		if !slices.Contains(d.TrueLabels, l) {
			legit = append(legit, l)
		}
	}
	sort.Strings(legit)

	for _, l := range d.TrueLabels {
		if _, err := d.Utils.CreateOrUpdateLabel(ctx, l, "Fraud flag"); err != nil {
			return nil, err
		}
	}
	for _, l := range legit {
		if _, err := d.Utils.CreateOrUpdateLabel(ctx, l, "Legit flag"); err != nil {
			return nil, err
		}
	}

	return models.LabelSchema{
		models.LabelKeyFraud: slices.Clone(d.TrueLabels),
		models.LabelKeyLegit: legit,
	}, nil
}
