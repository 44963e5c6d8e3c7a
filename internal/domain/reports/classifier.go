package reports

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"palletbook/internal/domain/catalog"
)

// DefaultTransportRule matches services named like "Transport".
const DefaultTransportRule = `name.matches("(?i)transport")`

// Classifier decides whether a flat service is transport or VASY.
// The rule is a CEL expression over the string variables id, name and unit.
type Classifier struct {
	rule string
	prg  cel.Program
}

// NewClassifier compiles rule. It must evaluate to a bool.
func NewClassifier(rule string) (*Classifier, error) {
	if rule == "" {
		rule = DefaultTransportRule
	}

	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("unit", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("transport rule env: %w", err)
	}

	ast, iss := env.Compile(rule)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile transport rule %q: %w", rule, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("transport rule %q must return bool, got %s", rule, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("transport rule program: %w", err)
	}
	return &Classifier{rule: rule, prg: prg}, nil
}

// Rule returns the source expression.
func (c *Classifier) Rule() string { return c.rule }

// IsTransport evaluates the rule for a service. Evaluation errors count as false.
func (c *Classifier) IsTransport(def catalog.ServiceDefinition) bool {
	out, _, err := c.prg.Eval(map[string]any{
		"id":   def.ID,
		"name": def.Name,
		"unit": def.Unit,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Category maps a flat service to transport or VASY.
func (c *Classifier) Category(def catalog.ServiceDefinition) LineCategory {
	if c.IsTransport(def) {
		return LineTransport
	}
	return LineVASY
}
