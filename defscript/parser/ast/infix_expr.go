package ast

import (
	"fmt"

	"github.com/smarthome-go/defscript/defscript/errors"
)

//
// Infix expression
//

type InfixExpression struct {
	Lhs      Expression
	Rhs      Expression
	Operator InfixOperator
	Range    errors.Span
}

func (self InfixExpression) Kind() ExpressionKind { return InfixExpressionKind }
func (self InfixExpression) Span() errors.Span    { return self.Range }
func (self InfixExpression) String() string {
	left, _ := self.Operator.BindingPower()

	lhs := self.Lhs.String()
	if operandStrength(self.Lhs) < left {
		lhs = fmt.Sprintf("(%s)", lhs)
	}

	// all operators are left-associative: an equally strong rhs needs parentheses
	rhs := self.Rhs.String()
	if operandStrength(self.Rhs) <= left {
		rhs = fmt.Sprintf("(%s)", rhs)
	}

	return fmt.Sprintf("%s %s %s", lhs, self.Operator, rhs)
}

//
// Infix operators
//

type InfixOperator uint8

const (
	LogicalOrInfixOperator InfixOperator = iota
	LogicalAndInfixOperator
	InInfixOperator
	EqualInfixOperator
	NotEqualInfixOperator
	LessThanInfixOperator
	LessThanEqualInfixOperator
	GreaterThanInfixOperator
	GreaterThanEqualInfixOperator
	PlusInfixOperator
	MinusInfixOperator
	MultiplyInfixOperator
	DivideInfixOperator
	ModuloInfixOperator
	PowerInfixOperator
	RangeInfixOperator
	InclusiveRangeInfixOperator
)

func (self InfixOperator) String() string {
	switch self {
	case LogicalOrInfixOperator:
		return "or"
	case LogicalAndInfixOperator:
		return "and"
	case InInfixOperator:
		return "in"
	case EqualInfixOperator:
		return "=="
	case NotEqualInfixOperator:
		return "!="
	case LessThanInfixOperator:
		return "<"
	case LessThanEqualInfixOperator:
		return "<="
	case GreaterThanInfixOperator:
		return ">"
	case GreaterThanEqualInfixOperator:
		return ">="
	case PlusInfixOperator:
		return "+"
	case MinusInfixOperator:
		return "-"
	case MultiplyInfixOperator:
		return "*"
	case DivideInfixOperator:
		return "/"
	case ModuloInfixOperator:
		return "%"
	case PowerInfixOperator:
		return "**"
	case RangeInfixOperator:
		return ".."
	case InclusiveRangeInfixOperator:
		return "..="
	default:
		panic("A new infix-operator was added without updating this code")
	}
}

// BindingPower returns the left and right binding power of the operator.
// Every operator is left-associative, therefore `right` is always `left + 1`.
func (self InfixOperator) BindingPower() (left uint8, right uint8) {
	switch self {
	case LogicalOrInfixOperator:
		return 1, 2
	case LogicalAndInfixOperator:
		return 3, 4
	case InInfixOperator:
		return 5, 6
	case EqualInfixOperator, NotEqualInfixOperator,
		LessThanInfixOperator, LessThanEqualInfixOperator,
		GreaterThanInfixOperator, GreaterThanEqualInfixOperator:
		return 7, 8
	case PlusInfixOperator, MinusInfixOperator:
		return 9, 10
	case MultiplyInfixOperator, DivideInfixOperator, ModuloInfixOperator:
		return 11, 12
	case PowerInfixOperator:
		return 13, 14
	case RangeInfixOperator:
		return 15, 16
	case InclusiveRangeInfixOperator:
		return 17, 18
	default:
		panic("A new infix-operator was added without updating this code")
	}
}

const (
	// PrefixBindingPower is stronger than every infix operator.
	PrefixBindingPower uint8 = 19
	// PostfixBindingPower is used for the index operator and binds stronger than prefix operators.
	PostfixBindingPower uint8 = 20
	atomBindingPower    uint8 = 255
)

// ParseInfixOperator converts an operator cluster into an infix operator.
// `&&` and `||` are accepted as alternative spellings of `and` and `or`.
func ParseInfixOperator(cluster string) (InfixOperator, bool) {
	switch cluster {
	case "or", "||":
		return LogicalOrInfixOperator, true
	case "and", "&&":
		return LogicalAndInfixOperator, true
	case "in":
		return InInfixOperator, true
	case "==":
		return EqualInfixOperator, true
	case "!=":
		return NotEqualInfixOperator, true
	case "<":
		return LessThanInfixOperator, true
	case "<=":
		return LessThanEqualInfixOperator, true
	case ">":
		return GreaterThanInfixOperator, true
	case ">=":
		return GreaterThanEqualInfixOperator, true
	case "+":
		return PlusInfixOperator, true
	case "-":
		return MinusInfixOperator, true
	case "*":
		return MultiplyInfixOperator, true
	case "/":
		return DivideInfixOperator, true
	case "%":
		return ModuloInfixOperator, true
	case "**":
		return PowerInfixOperator, true
	case "..":
		return RangeInfixOperator, true
	case "..=":
		return InclusiveRangeInfixOperator, true
	default:
		return 0, false
	}
}

// operandStrength returns how tightly `expr` holds together when it is used as an operand.
func operandStrength(expr Expression) uint8 {
	switch expr.Kind() {
	case InfixExpressionKind:
		left, _ := expr.(InfixExpression).Operator.BindingPower()
		return left
	case PrefixExpressionKind:
		return PrefixBindingPower
	case IndexExpressionKind:
		return PostfixBindingPower
	case AssignExpressionKind:
		return 0
	default:
		return atomBindingPower
	}
}
