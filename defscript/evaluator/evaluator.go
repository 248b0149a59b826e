package evaluator

import (
	"maps"
	"slices"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
	"github.com/smarthome-go/defscript/defscript/value"
)

// Environment holds the values of all names which have already been computed.
// The evaluator never modifies it, block-local names are bound in a copy.
type Environment map[string]value.SpannedValue

// Names returns all names of the environment in lexical order.
func (self Environment) Names() []string {
	return slices.Sorted(maps.Keys(self))
}

type Evaluator struct {
	env    Environment
	Errors []errors.Error
}

func NewEvaluator(env Environment) Evaluator {
	if env == nil {
		env = make(Environment)
	}

	return Evaluator{
		env:    env,
		Errors: make([]errors.Error, 0),
	}
}

// Evaluate computes the value of `node`.
// If evaluation fails, the returned value is the error sentinel and every detected error is returned.
func Evaluate(node ast.Expression, env Environment) (value.SpannedValue, []errors.Error) {
	evaluator := NewEvaluator(env)
	result := evaluator.Evaluate(node)

	if len(evaluator.Errors) > 0 {
		return value.NewSpannedValue(value.NewValueError(), node.Span()), evaluator.Errors
	}
	return result, nil
}

func (self *Evaluator) Evaluate(node ast.Expression) value.SpannedValue {
	return self.expression(node)
}

func (self *Evaluator) recordErr(err errors.Error) {
	self.Errors = append(self.Errors, err)
}

// fail records `err` and returns the error sentinel spanned to `span`.
func (self *Evaluator) fail(err errors.Error, span errors.Span) value.SpannedValue {
	self.recordErr(err)
	return sentinel(span)
}

func sentinel(span errors.Span) value.SpannedValue {
	return value.NewSpannedValue(value.NewValueError(), span)
}
