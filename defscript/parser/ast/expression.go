package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
)

type Expression interface {
	Kind() ExpressionKind
	Span() errors.Span
	String() string
}

type ExpressionKind uint8

const (
	NumberLiteralExpressionKind ExpressionKind = iota
	StringLiteralExpressionKind
	BoolLiteralExpressionKind
	NullLiteralExpressionKind
	ArrayLiteralExpressionKind
	IdentExpressionKind
	PrefixExpressionKind
	InfixExpressionKind
	IndexExpressionKind
	IfExpressionKind
	AssignExpressionKind
	ErrorExpressionKind
)

func (self ExpressionKind) String() string {
	switch self {
	case NumberLiteralExpressionKind:
		return "number literal"
	case StringLiteralExpressionKind:
		return "string literal"
	case BoolLiteralExpressionKind:
		return "boolean literal"
	case NullLiteralExpressionKind:
		return "null literal"
	case ArrayLiteralExpressionKind:
		return "array literal"
	case IdentExpressionKind:
		return "identifier"
	case PrefixExpressionKind:
		return "prefix expression"
	case InfixExpressionKind:
		return "infix expression"
	case IndexExpressionKind:
		return "index expression"
	case IfExpressionKind:
		return "if expression"
	case AssignExpressionKind:
		return "assignment"
	case ErrorExpressionKind:
		return "error"
	default:
		panic("A new expression kind was introduced without updating this code")
	}
}

//
// Number literal
//

type NumberLiteralExpression struct {
	Value float64
	Range errors.Span
}

func (self NumberLiteralExpression) Kind() ExpressionKind { return NumberLiteralExpressionKind }
func (self NumberLiteralExpression) Span() errors.Span    { return self.Range }
func (self NumberLiteralExpression) String() string {
	if math.IsInf(self.Value, 0) {
		if self.Value < 0 {
			return "-1e999"
		}
		return "1e999"
	}
	if self.Value == math.Trunc(self.Value) && math.Abs(self.Value) < 1e15 {
		return strconv.FormatInt(int64(self.Value), 10)
	}
	return strconv.FormatFloat(self.Value, 'g', -1, 64)
}

//
// String literal
//

type StringLiteralExpression struct {
	Value string
	Range errors.Span
}

func (self StringLiteralExpression) Kind() ExpressionKind { return StringLiteralExpressionKind }
func (self StringLiteralExpression) Span() errors.Span    { return self.Range }
func (self StringLiteralExpression) String() string       { return QuoteString(self.Value) }

// QuoteString produces a double-quoted string literal which lexes back to `value`.
func QuoteString(value string) string {
	var builder strings.Builder
	builder.WriteRune('"')

	for _, char := range value {
		switch char {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '\b':
			builder.WriteString(`\b`)
		case '\f':
			builder.WriteString(`\f`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			if char < 0x20 {
				fmt.Fprintf(&builder, `\u%04X`, char)
			} else {
				builder.WriteRune(char)
			}
		}
	}

	builder.WriteRune('"')
	return builder.String()
}

//
// Bool literal
//

type BoolLiteralExpression struct {
	Value bool
	Range errors.Span
}

func (self BoolLiteralExpression) Kind() ExpressionKind { return BoolLiteralExpressionKind }
func (self BoolLiteralExpression) Span() errors.Span    { return self.Range }
func (self BoolLiteralExpression) String() string       { return fmt.Sprint(self.Value) }

//
// Null literal
//

type NullLiteralExpression struct{ Range errors.Span }

func (self NullLiteralExpression) Kind() ExpressionKind { return NullLiteralExpressionKind }
func (self NullLiteralExpression) Span() errors.Span    { return self.Range }
func (self NullLiteralExpression) String() string       { return "null" }

//
// Array literal
//

type ArrayLiteralExpression struct {
	Values []Expression
	Range  errors.Span
}

func (self ArrayLiteralExpression) Kind() ExpressionKind { return ArrayLiteralExpressionKind }
func (self ArrayLiteralExpression) Span() errors.Span    { return self.Range }
func (self ArrayLiteralExpression) String() string {
	inner := make([]string, 0)
	for _, value := range self.Values {
		inner = append(inner, value.String())
	}

	return fmt.Sprintf("[%s]", strings.Join(inner, ", "))
}

//
// Ident expression
//

type IdentExpression struct {
	Ident SpannedIdent
}

func (self IdentExpression) Kind() ExpressionKind { return IdentExpressionKind }
func (self IdentExpression) Span() errors.Span    { return self.Ident.span }
func (self IdentExpression) String() string       { return self.Ident.ident }

//
// Prefix expression
//

type PrefixExpression struct {
	Operator PrefixOperator
	Base     Expression
	Range    errors.Span
}

func (self PrefixExpression) Kind() ExpressionKind { return PrefixExpressionKind }
func (self PrefixExpression) Span() errors.Span    { return self.Range }
func (self PrefixExpression) String() string {
	base := self.Base.String()
	if operandStrength(self.Base) < PrefixBindingPower {
		base = fmt.Sprintf("(%s)", base)
	}
	return fmt.Sprintf("%s%s", self.Operator, base)
}

type PrefixOperator uint8

const (
	NegatePrefixOperator PrefixOperator = iota
)

func (self PrefixOperator) String() string {
	switch self {
	case NegatePrefixOperator:
		return "!"
	default:
		panic("A new prefix-operator was added without updating this code")
	}
}

//
// Infix expression (NOTE: refer to `infix_expr.go`)
//

//
// Index expression
//

type IndexExpression struct {
	Base  Expression
	Index Expression
	Range errors.Span
}

func (self IndexExpression) Kind() ExpressionKind { return IndexExpressionKind }
func (self IndexExpression) Span() errors.Span    { return self.Range }
func (self IndexExpression) String() string {
	base := self.Base.String()
	if operandStrength(self.Base) < PostfixBindingPower {
		base = fmt.Sprintf("(%s)", base)
	}
	return fmt.Sprintf("%s[%s]", base, self.Index)
}

//
// If expression
//

type IfExpression struct {
	Condition Expression
	ThenBlock Block
	// If `ElseIsIf` is set, the else block contains exactly one `IfExpression`.
	ElseBlock Block
	ElseIsIf  bool
	Range     errors.Span
}

func (self IfExpression) Kind() ExpressionKind { return IfExpressionKind }
func (self IfExpression) Span() errors.Span    { return self.Range }
func (self IfExpression) String() string {
	elseString := self.ElseBlock.String()
	if self.ElseIsIf {
		elseString = self.ElseBlock.Last().String()
	}
	return fmt.Sprintf("if %s %s else %s", self.Condition, self.ThenBlock, elseString)
}

//
// Assign expression
//

// AssignExpression binds every target to the same value.
// It is a statement of the program or of a block, names assigned in a block are local to it.
type AssignExpression struct {
	Targets []SpannedIdent
	Value   Expression
	Range   errors.Span
}

func (self AssignExpression) Kind() ExpressionKind { return AssignExpressionKind }
func (self AssignExpression) Span() errors.Span    { return self.Range }
func (self AssignExpression) String() string {
	return fmt.Sprintf("%s = %s", strings.Join(self.TargetNames(), " = "), self.Value)
}

func (self AssignExpression) TargetNames() []string {
	names := make([]string, 0)
	for _, target := range self.Targets {
		names = append(names, target.ident)
	}
	return names
}

//
// Error expression
//

// ErrorExpression is a placeholder which is inserted by the parser after it recovered from an error.
type ErrorExpression struct{ Range errors.Span }

func (self ErrorExpression) Kind() ExpressionKind { return ErrorExpressionKind }
func (self ErrorExpression) Span() errors.Span    { return self.Range }
func (self ErrorExpression) String() string       { return "<error>" }
