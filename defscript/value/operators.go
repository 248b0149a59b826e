package value

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

// Infix applies `op` to both operands.
// If one of the operands is the error sentinel, the result is the sentinel and no error is reported.
func Infix(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue) (Value, errors.Error) {
	if lhs.IsError() || rhs.IsError() {
		return NewValueError(), nil
	}

	switch op {
	case ast.PlusInfixOperator:
		return arithmetic(op, lhs, rhs, func(a, b float64) float64 { return a + b })
	case ast.MinusInfixOperator:
		return arithmetic(op, lhs, rhs, func(a, b float64) float64 { return a - b })
	case ast.DivideInfixOperator:
		return arithmetic(op, lhs, rhs, func(a, b float64) float64 { return a / b })
	case ast.ModuloInfixOperator:
		return arithmetic(op, lhs, rhs, math.Mod)
	case ast.PowerInfixOperator:
		return arithmetic(op, lhs, rhs, power)
	case ast.MultiplyInfixOperator:
		return multiply(lhs, rhs)
	case ast.EqualInfixOperator:
		return equals(op, lhs, rhs)
	case ast.NotEqualInfixOperator:
		result, err := equals(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return NewValueBool(!result.(ValueBool).Inner), nil
	case ast.LessThanInfixOperator:
		return compare(op, lhs, rhs, func(a, b float64) bool { return a < b })
	case ast.LessThanEqualInfixOperator:
		return compare(op, lhs, rhs, func(a, b float64) bool { return a <= b })
	case ast.GreaterThanInfixOperator:
		return compare(op, lhs, rhs, func(a, b float64) bool { return a > b })
	case ast.GreaterThanEqualInfixOperator:
		return compare(op, lhs, rhs, func(a, b float64) bool { return a >= b })
	case ast.LogicalAndInfixOperator:
		return logical(op, lhs, rhs, func(a, b bool) bool { return a && b })
	case ast.LogicalOrInfixOperator:
		return logical(op, lhs, rhs, func(a, b bool) bool { return a || b })
	case ast.InInfixOperator:
		return contains(lhs, rhs)
	case ast.RangeInfixOperator:
		return makeRange(lhs, rhs, false)
	case ast.InclusiveRangeInfixOperator:
		return makeRange(lhs, rhs, true)
	default:
		panic(fmt.Sprintf("A new infix-operator was added without updating this code: %s", op))
	}
}

// Not negates a boolean.
func Not(base SpannedValue) (Value, errors.Error) {
	if base.IsError() {
		return NewValueError(), nil
	}

	boolean, ok := base.Value.(ValueBool)
	if !ok {
		return nil, NewTypeError([]ValueKind{BoolValueKind}, base, SimpleContext(NotContextKind))
	}

	return NewValueBool(!boolean.Inner), nil
}

//
// Numbers
//

// numbers extracts both operands as numbers or reports the first operand which is not a number.
func numbers(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue) (float64, float64, errors.Error) {
	lhsNumber, ok := lhs.Value.(ValueNumber)
	if !ok {
		return 0, 0, NewTypeError([]ValueKind{NumberValueKind}, lhs, InfixLhsContext(op))
	}

	rhsNumber, ok := rhs.Value.(ValueNumber)
	if !ok {
		return 0, 0, NewTypeError([]ValueKind{NumberValueKind}, rhs, InfixRhsContext(NumberValueKind, op))
	}

	return lhsNumber.Inner, rhsNumber.Inner, nil
}

func arithmetic(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue, apply func(a, b float64) float64) (Value, errors.Error) {
	a, b, err := numbers(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return NewValueNumber(apply(a, b)), nil
}

func compare(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue, apply func(a, b float64) bool) (Value, errors.Error) {
	a, b, err := numbers(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return NewValueBool(apply(a, b)), nil
}

// Exponents outside of this bound are always computed using `math.Pow`.
const maxExactExponent = 1 << 53

// power computes an exact integer power if both operands are integral.
func power(base float64, exponent float64) float64 {
	if base != math.Trunc(base) || exponent != math.Trunc(exponent) || math.Abs(exponent) > maxExactExponent {
		return math.Pow(base, exponent)
	}

	negative := exponent < 0
	remaining := int64(math.Abs(exponent))

	result := 1.0
	factor := base
	for remaining > 0 {
		if remaining&1 == 1 {
			result *= factor
		}
		factor *= factor
		remaining >>= 1
	}

	if negative {
		return 1 / result
	}
	return result
}

//
// Multiplication
//

func multiply(lhs SpannedValue, rhs SpannedValue) (Value, errors.Error) {
	op := ast.MultiplyInfixOperator

	switch lhsValue := lhs.Value.(type) {
	case ValueNumber:
		switch rhsValue := rhs.Value.(type) {
		case ValueNumber:
			return NewValueNumber(lhsValue.Inner * rhsValue.Inner), nil
		case ValueString:
			return repeat(rhsValue.Inner, lhs)
		default:
			return nil, NewTypeError([]ValueKind{NumberValueKind, StringValueKind}, rhs, InfixRhsContext(NumberValueKind, op))
		}
	case ValueString:
		if _, ok := rhs.Value.(ValueNumber); !ok {
			return nil, NewTypeError([]ValueKind{NumberValueKind}, rhs, InfixRhsContext(StringValueKind, op))
		}
		return repeat(lhsValue.Inner, rhs)
	default:
		return nil, NewTypeError([]ValueKind{NumberValueKind, StringValueKind}, lhs, InfixLhsContext(op))
	}
}

// Upper bound for the length (in bytes) of a repeated string.
const MaxRepeatLength = 1 << 24

// repeat repeats `text` |count| times, `count` must be integral.
func repeat(text string, count SpannedValue) (Value, errors.Error) {
	times, ok := AsInteger(count.Value.(ValueNumber).Inner)
	if !ok {
		return nil, NewTypeError([]ValueKind{IntValueKind}, count, SimpleContext(StringMulContextKind))
	}

	if times < 0 {
		times = -times
	}

	if len(text) == 0 {
		return NewValueString(""), nil
	}

	if times > MaxRepeatLength/int64(len(text)) {
		return nil, NewTypeError([]ValueKind{IntValueKind}, count, RepeatLimitContext(len(text)))
	}

	return NewValueString(strings.Repeat(text, int(times))), nil
}

//
// Equality
//

// Only these kinds can be compared using `==` and `!=`.
var comparableKinds = []ValueKind{NumberValueKind, StringValueKind, BoolValueKind, ArrayValueKind}

func equals(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue) (Value, errors.Error) {
	if !slices.Contains(comparableKinds, lhs.Kind()) {
		return nil, NewTypeError(comparableKinds, lhs, InfixLhsContext(op))
	}

	if lhs.Kind() != rhs.Kind() {
		return nil, NewTypeError([]ValueKind{lhs.Kind()}, rhs, InfixRhsContext(lhs.Kind(), op))
	}
	return NewValueBool(lhs.Value.IsEqual(rhs.Value)), nil
}

//
// Booleans
//

func logical(op ast.InfixOperator, lhs SpannedValue, rhs SpannedValue, apply func(a, b bool) bool) (Value, errors.Error) {
	lhsBool, ok := lhs.Value.(ValueBool)
	if !ok {
		return nil, NewTypeError([]ValueKind{BoolValueKind}, lhs, InfixLhsContext(op))
	}

	rhsBool, ok := rhs.Value.(ValueBool)
	if !ok {
		return nil, NewTypeError([]ValueKind{BoolValueKind}, rhs, InfixRhsContext(BoolValueKind, op))
	}

	return NewValueBool(apply(lhsBool.Inner, rhsBool.Inner)), nil
}

//
// Membership
//

func contains(needle SpannedValue, haystack SpannedValue) (Value, errors.Error) {
	switch haystackValue := haystack.Value.(type) {
	case ValueArray:
		return NewValueBool(haystackValue.Contains(needle.Value)), nil
	case ValueString:
		needleString, ok := needle.Value.(ValueString)
		if !ok {
			return nil, NewTypeError([]ValueKind{StringValueKind}, needle, ContainsContext(StringValueKind))
		}
		return NewValueBool(strings.Contains(haystackValue.Inner, needleString.Inner)), nil
	default:
		return nil, NewTypeError(
			[]ValueKind{ArrayValueKind, StringValueKind},
			haystack,
			InfixRhsContext(needle.Kind(), ast.InInfixOperator),
		)
	}
}

//
// Ranges
//

func makeRange(lhs SpannedValue, rhs SpannedValue, endIsInclusive bool) (Value, errors.Error) {
	start, err := rangeBound(lhs)
	if err != nil {
		return nil, err
	}

	end, err := rangeBound(rhs)
	if err != nil {
		return nil, err
	}

	return NewValueRange(start, end, endIsInclusive), nil
}

func rangeBound(bound SpannedValue) (int64, errors.Error) {
	number, ok := bound.Value.(ValueNumber)
	if !ok {
		return 0, NewTypeError([]ValueKind{IntValueKind}, bound, SimpleContext(RangeContextKind))
	}

	integer, ok := AsInteger(number.Inner)
	if !ok {
		return 0, NewTypeError([]ValueKind{IntValueKind}, bound, SimpleContext(RangeContextKind))
	}

	return integer, nil
}
