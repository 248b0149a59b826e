package evaluator

import (
	"fmt"
	"maps"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
	"github.com/smarthome-go/defscript/defscript/value"
)

func (self *Evaluator) expression(node ast.Expression) value.SpannedValue {
	switch node.Kind() {
	case ast.NumberLiteralExpressionKind:
		node := node.(ast.NumberLiteralExpression)
		return value.NewSpannedValue(value.NewValueNumber(node.Value), node.Range)
	case ast.StringLiteralExpressionKind:
		node := node.(ast.StringLiteralExpression)
		return value.NewSpannedValue(value.NewValueString(node.Value), node.Range)
	case ast.BoolLiteralExpressionKind:
		node := node.(ast.BoolLiteralExpression)
		return value.NewSpannedValue(value.NewValueBool(node.Value), node.Range)
	case ast.NullLiteralExpressionKind:
		return value.NewSpannedValue(value.NewValueNull(), node.Span())
	case ast.ArrayLiteralExpressionKind:
		return self.arrayLiteral(node.(ast.ArrayLiteralExpression))
	case ast.IdentExpressionKind:
		return self.ident(node.(ast.IdentExpression).Ident)
	case ast.PrefixExpressionKind:
		return self.prefixExpression(node.(ast.PrefixExpression))
	case ast.InfixExpressionKind:
		return self.infixExpression(node.(ast.InfixExpression))
	case ast.IndexExpressionKind:
		return self.indexExpression(node.(ast.IndexExpression))
	case ast.IfExpressionKind:
		return self.ifExpression(node.(ast.IfExpression))
	case ast.AssignExpressionKind:
		return self.assignExpression(node.(ast.AssignExpression))
	case ast.ErrorExpressionKind:
		// The parser has already reported this
		return sentinel(node.Span())
	default:
		panic(fmt.Sprintf("A new expression kind (%v) was introduced without updating this code", node.Kind()))
	}
}

//
// Array literal
//

func (self *Evaluator) arrayLiteral(node ast.ArrayLiteralExpression) value.SpannedValue {
	elements := make([]value.SpannedValue, 0, len(node.Values))
	failed := false

	// Every element is evaluated so that all errors are reported
	for _, element := range node.Values {
		result := self.expression(element)
		if result.IsError() {
			failed = true
		}
		elements = append(elements, result)
	}

	if failed {
		return sentinel(node.Range)
	}

	return value.NewSpannedValue(value.NewValueArray(elements), node.Range)
}

//
// Identifier
//

func (self *Evaluator) ident(ident ast.SpannedIdent) value.SpannedValue {
	val, found := self.env[ident.Ident()]
	if !found {
		return self.fail(errors.NewReferenceError(ident.Ident(), ident.Span(), self.env.Names()), ident.Span())
	}

	return val.WithSpan(ident.Span())
}

//
// Prefix expression
//

func (self *Evaluator) prefixExpression(node ast.PrefixExpression) value.SpannedValue {
	base := self.expression(node.Base)

	switch node.Operator {
	case ast.NegatePrefixOperator:
		result, err := value.Not(base)
		if err != nil {
			return self.fail(err, node.Range)
		}
		return value.NewSpannedValue(result, node.Range)
	default:
		panic("A new prefix-operator was added without updating this code")
	}
}

//
// Infix expression
//

func (self *Evaluator) infixExpression(node ast.InfixExpression) value.SpannedValue {
	lhs := self.expression(node.Lhs)
	rhs := self.expression(node.Rhs)

	result, err := value.Infix(node.Operator, lhs, rhs)
	if err != nil {
		return self.fail(err, node.Range)
	}

	return value.NewSpannedValue(result, node.Range)
}

//
// Index expression
//

func (self *Evaluator) indexExpression(node ast.IndexExpression) value.SpannedValue {
	base := self.expression(node.Base)
	index := self.expression(node.Index)

	result, err := value.Index(base, index)
	if err != nil {
		return self.fail(err, node.Range)
	}

	return value.NewSpannedValue(result, node.Range)
}

//
// If expression
//

func (self *Evaluator) ifExpression(node ast.IfExpression) value.SpannedValue {
	condition := self.expression(node.Condition)
	if condition.IsError() {
		return sentinel(node.Range)
	}

	conditionBool, isBool := condition.Value.(value.ValueBool)
	if !isBool {
		return self.fail(
			value.NewTypeError(
				[]value.ValueKind{value.BoolValueKind},
				condition,
				value.SimpleContext(value.ConditionContextKind),
			),
			node.Range,
		)
	}

	// Only the selected branch is evaluated
	if conditionBool.Inner {
		return self.block(node.ThenBlock)
	}
	return self.block(node.ElseBlock)
}

// block evaluates every expression of `node` and results in the value of the last one.
// Names assigned inside the block are only visible to the following expressions of the same block.
func (self *Evaluator) block(node ast.Block) value.SpannedValue {
	outer := self.env
	defer func() { self.env = outer }()

	result := sentinel(node.Range)
	failed := false
	scoped := false

	for _, expr := range node.Expressions {
		result = self.expression(expr)
		if result.IsError() {
			failed = true
		}

		assign, isAssign := expr.(ast.AssignExpression)
		if !isAssign {
			continue
		}

		if !scoped {
			self.env = maps.Clone(outer)
			scoped = true
		}

		// A failed assignment binds the sentinel so that later uses stay silent
		bound := sentinel(assign.Value.Span())
		if assigned, ok := result.Value.(value.ValueAssign); ok {
			bound = value.NewSpannedValue(assigned.Inner, assign.Value.Span())
		}
		for _, target := range assign.TargetNames() {
			self.env[target] = bound
		}
	}

	if failed {
		return sentinel(node.Range)
	}
	return result
}

//
// Assign expression
//

func (self *Evaluator) assignExpression(node ast.AssignExpression) value.SpannedValue {
	result := self.expression(node.Value)
	if result.IsError() {
		return sentinel(node.Range)
	}

	return value.NewSpannedValue(value.NewValueAssign(node.TargetNames(), result.Value), node.Range)
}
