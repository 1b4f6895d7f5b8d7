// Package expr implements the "#{…}" expression evaluation hook: factory
// argument values that look like an expression are evaluated against an
// expression context; everything else is kept verbatim. Kept isolated
// behind the Evaluator interface so it can be stubbed in tests.
package expr

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Evaluator evaluates a single expression string (without its "#{" "}"
// delimiters) against an environment and returns its string
// representation.
type Evaluator interface {
	Evaluate(expression string, env map[string]interface{}) (string, error)
}

// IsExpression reports whether a raw argument value is the "#{…}" form
// that should be routed through an Evaluator rather than used verbatim.
func IsExpression(value string) bool {
	return strings.HasPrefix(value, "#{") && strings.HasSuffix(value, "}")
}

// Body strips the "#{" "}" delimiters from an expression value.
func Body(value string) string {
	return strings.TrimSuffix(strings.TrimPrefix(value, "#{"), "}")
}

// Default is an Evaluator backed by github.com/expr-lang/expr, covering
// simple comparisons, string operations, and attribute access.
type Default struct{}

func (Default) Evaluate(expression string, env map[string]interface{}) (string, error) {
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("compile expression %q: %w", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return fmt.Sprintf("%v", out), nil
}

// Stub is a test-only Evaluator returning a fixed value for every
// expression, or an error when configured to fail.
type Stub struct {
	Value string
	Err   error
}

func (s Stub) Evaluate(string, map[string]interface{}) (string, error) {
	return s.Value, s.Err
}
