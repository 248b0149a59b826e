package value

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

//
// Type error context
//

type TypeErrorContextKind uint8

const (
	// The left-hand side of `Operator` has an invalid type.
	InfixLhsContextKind TypeErrorContextKind = iota
	// The right-hand side of `Operator` does not fit a left-hand side of type `Lhs`.
	InfixRhsContextKind
	NotContextKind
	// A string was repeated a non-integral number of times.
	StringMulContextKind
	// Repeating a string of length `Length` would exceed `MaxRepeatLength`.
	RepeatLimitContextKind
	// The index of an index expression has an invalid type.
	IndexContextKind
	// The base of an index expression cannot be indexed.
	IndexOfContextKind
	RangeContextKind
	// The left-hand side of `in` does not fit a right-hand side of type `Rhs`.
	ContainsContextKind
	ConditionContextKind
)

type TypeErrorContext struct {
	Kind     TypeErrorContextKind
	Operator ast.InfixOperator
	Lhs      ValueKind
	Rhs      ValueKind
	Length   int
}

func InfixLhsContext(op ast.InfixOperator) TypeErrorContext {
	return TypeErrorContext{Kind: InfixLhsContextKind, Operator: op}
}

func InfixRhsContext(lhs ValueKind, op ast.InfixOperator) TypeErrorContext {
	return TypeErrorContext{Kind: InfixRhsContextKind, Operator: op, Lhs: lhs}
}

func ContainsContext(rhs ValueKind) TypeErrorContext {
	return TypeErrorContext{Kind: ContainsContextKind, Operator: ast.InInfixOperator, Rhs: rhs}
}

func RepeatLimitContext(length int) TypeErrorContext {
	return TypeErrorContext{Kind: RepeatLimitContextKind, Operator: ast.MultiplyInfixOperator, Length: length}
}

func SimpleContext(kind TypeErrorContextKind) TypeErrorContext {
	return TypeErrorContext{Kind: kind}
}

//
// Type error
//

type TypeError struct {
	Expected []ValueKind
	Got      SpannedValue
	Context  TypeErrorContext
}

func NewTypeError(expected []ValueKind, got SpannedValue, context TypeErrorContext) *TypeError {
	return &TypeError{
		Expected: expected,
		Got:      got,
		Context:  context,
	}
}

func (self *TypeError) Kind() errors.ErrorKind { return errors.TypeErrorKind }
func (self *TypeError) Span() errors.Span      { return self.Got.Span }
func (self *TypeError) Error() string {
	return fmt.Sprintf("%s at %s: %s", self.Kind(), self.Got.Span, self.Message())
}

// ExpectedString lists the expected types, for instance `number or string`.
func (self *TypeError) ExpectedString() string {
	kinds := make([]string, 0)
	for _, kind := range self.Expected {
		kinds = append(kinds, kind.String())
	}

	switch len(kinds) {
	case 0:
		return "nothing"
	case 1:
		return kinds[0]
	default:
		return fmt.Sprintf("%s or %s", strings.Join(kinds[:len(kinds)-1], ", "), kinds[len(kinds)-1])
	}
}

// Message describes what went wrong in the context of the failed operation.
func (self *TypeError) Message() string {
	got := self.Got.Kind()

	switch self.Context.Kind {
	case InfixLhsContextKind:
		return fmt.Sprintf(
			"Operator `%s` expects a left-hand side of type %s, found %s",
			self.Context.Operator, self.ExpectedString(), got,
		)
	case InfixRhsContextKind:
		return fmt.Sprintf(
			"Operator `%s` with a left-hand side of type %s expects a right-hand side of type %s, found %s",
			self.Context.Operator, self.Context.Lhs, self.ExpectedString(), got,
		)
	case NotContextKind:
		return fmt.Sprintf("Operator `!` expects %s, found %s", self.ExpectedString(), got)
	case StringMulContextKind:
		return fmt.Sprintf("A string can only be repeated an integral number of times, found %s", self.Got.Value.Display())
	case RepeatLimitContextKind:
		return fmt.Sprintf(
			"Repeating a string of length %d %s times exceeds the maximum length of %d bytes",
			self.Context.Length, self.Got.Value.Display(), MaxRepeatLength,
		)
	case IndexContextKind:
		return fmt.Sprintf("Cannot index with %s, expected %s", describeGot(self.Got), self.ExpectedString())
	case IndexOfContextKind:
		return fmt.Sprintf("Cannot index into a value of type %s, expected %s", got, self.ExpectedString())
	case RangeContextKind:
		return fmt.Sprintf("Range bounds must be of type %s, found %s", self.ExpectedString(), describeGot(self.Got))
	case ContainsContextKind:
		return fmt.Sprintf(
			"Operator `in` with a right-hand side of type %s expects a left-hand side of type %s, found %s",
			self.Context.Rhs, self.ExpectedString(), got,
		)
	case ConditionContextKind:
		return fmt.Sprintf("Condition must be of type %s, found %s", self.ExpectedString(), got)
	default:
		panic("A new type error context was introduced without updating this code")
	}
}

// describeGot prints non-integral numbers with their value so that `int` mismatches are understandable.
func describeGot(got SpannedValue) string {
	if number, ok := got.Value.(ValueNumber); ok {
		return fmt.Sprintf("number %s", number.Display())
	}
	return got.Kind().String()
}
