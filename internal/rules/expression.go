package rules

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

var (
	_ fraud_detection.DetectorRule = (*ModelScorePositiveRule)(nil)
	_ fraud_detection.DetectorRule = (*ModelScoreNoThresholdRule)(nil)
	_ fraud_detection.DetectorRule = (*ExpressionRule)(nil)
)

// ExpressionRule is a rule with a hand written expression, e.g. loaded from a deploy file.
type ExpressionRule struct {
	ID           string   `mapstructure:"ruleId"`
	Desc         string   `mapstructure:"description"`
	Expr         string   `mapstructure:"expression"`
	RuleOutcomes []string `mapstructure:"outcomes"`
}

func (r *ExpressionRule) RuleID() string { return r.ID }

func (r *ExpressionRule) Description() string { return r.Desc }

func (r *ExpressionRule) Outcomes() []string { return r.RuleOutcomes }

func (r *ExpressionRule) Expression(ctx context.Context) (string, error) {
	return r.Expr, nil
}

// Validate checks the expression compiles as a boolean condition over $variables.
func (r *ExpressionRule) Validate() []string {
	problems := validateCommon(r.ID, r.RuleOutcomes)
	if strings.TrimSpace(r.Expr) == "" {
		return append(problems, "expression is required")
	}
	if err := CheckExpression(r.Expr); err != nil {
		problems = append(problems, err.Error())
	}
	return problems
}

// CheckExpression translates a detector rule expression into CEL and type checks it.
// Every $variable and every called function, such as regex_match, is declared dynamic,
// so only syntax, unknown identifiers and non boolean results are reported.
func CheckExpression(expression string) error {
	translated, variables := translateExpression(expression)
	if len(variables) == 0 {
		return fmt.Errorf("expression %q does not reference any $variable", expression)
	}

	opts := make([]cel.EnvOption, 0, len(variables))
	for _, v := range variables {
		opts = append(opts, cel.Variable(v, cel.DynType))
	}
	for name, arities := range calledFunctions(translated) {
		overloads := make([]cel.FunctionOpt, 0, len(arities))
		for _, n := range arities {
			args := make([]*cel.Type, n)
			for i := range args {
				args[i] = cel.DynType
			}
			overloads = append(overloads, cel.Overload(fmt.Sprintf("%s_dyn_%d", name, n), args, cel.DynType))
		}
		opts = append(opts, cel.Function(name, overloads...))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return fmt.Errorf("failed to create expression environment: %w", err)
	}

	ast, iss := env.Compile(translated)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("invalid expression %q: %w", expression, iss.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return fmt.Errorf("expression %q must evaluate to a boolean, got %s", expression, out)
	}
	return nil
}

var keywordOperators = map[string]string{
	"and": "&&",
	"or":  "||",
	"not": "!",
}

// translateExpression rewrites $name references into plain identifiers and the
// word operators into their symbols. String literals are copied untouched.
func translateExpression(expression string) (string, []string) {
	var out strings.Builder
	var variables []string
	seen := map[string]bool{}

	runes := []rune(expression)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '"' || c == '\'':
			j := skipString(runes, i)
			out.WriteString(string(runes[i:j]))
			i = j
		case c == '$':
			j := i + 1
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			if name != "" && !seen[name] {
				seen[name] = true
				variables = append(variables, name)
			}
			out.WriteString(name)
			i = j
		case isIdentRune(c):
			j := i
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if op, ok := keywordOperators[strings.ToLower(word)]; ok {
				out.WriteString(op)
			} else {
				out.WriteString(word)
			}
			i = j
		default:
			out.WriteRune(c)
			i++
		}
	}

	return out.String(), variables
}

// celGlobals are names CEL already declares or reserves; calls to them are left to CEL.
var celGlobals = map[string]bool{
	"size": true, "int": true, "uint": true, "double": true, "string": true, "bytes": true,
	"bool": true, "type": true, "dyn": true, "duration": true, "timestamp": true,
	"matches": true, "has": true, "in": true, "true": true, "false": true, "null": true,
}

// calledFunctions returns the global functions called in a translated expression with the
// argument counts they are called with. Member calls and calls inside string literals are skipped.
func calledFunctions(expression string) map[string][]int {
	calls := map[string][]int{}
	runes := []rune(expression)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(runes, i)
		case isIdentRune(c):
			j := i
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			name := string(runes[i:j])
			k := j
			for k < len(runes) && unicode.IsSpace(runes[k]) {
				k++
			}
			member := i > 0 && runes[i-1] == '.'
			if k < len(runes) && runes[k] == '(' && !member && !celGlobals[name] && !unicode.IsDigit(c) {
				if n := callArity(runes, k); !slices.Contains(calls[name], n) {
					calls[name] = append(calls[name], n)
				}
			}
			i = j
		default:
			i++
		}
	}
	return calls
}

// callArity counts the top level arguments of the call whose opening parenthesis is at open.
func callArity(runes []rune, open int) int {
	depth, commas, empty := 0, 0, true
	for i := open + 1; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(runes, i) - 1
			empty = false
		case c == '(' || c == '[' || c == '{':
			depth++
			empty = false
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				if empty {
					return 0
				}
				return commas + 1
			}
			depth--
		case c == ',' && depth == 0:
			commas++
		case !unicode.IsSpace(c):
			empty = false
		}
	}
	if empty {
		return 0
	}
	return commas + 1
}

// skipString returns the index just past the string literal starting at i.
func skipString(runes []rune, i int) int {
	quote := runes[i]
	j := i + 1
	for j < len(runes) && runes[j] != quote {
		if runes[j] == '\\' {
			j++
		}
		j++
	}
	if j < len(runes) {
		j++
	}
	return j
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
