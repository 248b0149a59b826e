package value

import (
	"github.com/smarthome-go/defscript/defscript/errors"
)

type ValueKind uint8

const (
	NullValueKind ValueKind = iota
	NumberValueKind
	// IntValueKind is never the kind of a value, it only appears in the expected types of a `TypeError`.
	IntValueKind
	StringValueKind
	BoolValueKind
	ArrayValueKind
	RangeValueKind
	InclusiveRangeValueKind
	AssignValueKind
	ErrorValueKind
)

func (self ValueKind) String() string {
	switch self {
	case NullValueKind:
		return "null"
	case NumberValueKind:
		return "number"
	case IntValueKind:
		return "int"
	case StringValueKind:
		return "string"
	case BoolValueKind:
		return "bool"
	case ArrayValueKind:
		return "array"
	case RangeValueKind:
		return "range"
	case InclusiveRangeValueKind:
		return "inclusive range"
	case AssignValueKind:
		return "assignment"
	case ErrorValueKind:
		return "error"
	default:
		panic("A new ValueKind was introduced without updating this code")
	}
}

// Value is an immutable runtime value.
type Value interface {
	Kind() ValueKind
	Display() string
	IsEqual(other Value) bool
}

//
// Spanned value
//

// SpannedValue pairs a value with the span of the expression which produced it.
type SpannedValue struct {
	Value Value
	Span  errors.Span
}

func NewSpannedValue(value Value, span errors.Span) SpannedValue {
	return SpannedValue{
		Value: value,
		Span:  span,
	}
}

func (self SpannedValue) Kind() ValueKind { return self.Value.Kind() }

// WithSpan returns the same value with a different span.
func (self SpannedValue) WithSpan(span errors.Span) SpannedValue {
	return SpannedValue{
		Value: self.Value,
		Span:  span,
	}
}

func (self SpannedValue) IsError() bool { return self.Value.Kind() == ErrorValueKind }

//
// Null
//

type ValueNull struct{}

func (_ ValueNull) Kind() ValueKind          { return NullValueKind }
func (_ ValueNull) Display() string          { return "null" }
func (_ ValueNull) IsEqual(other Value) bool { return other.Kind() == NullValueKind }

func NewValueNull() Value { return ValueNull{} }

//
// Error
//

// ValueError replaces the result of an expression which failed to evaluate.
// Operators which receive it do not report further errors.
type ValueError struct{}

func (_ ValueError) Kind() ValueKind      { return ErrorValueKind }
func (_ ValueError) Display() string      { return "<error>" }
func (_ ValueError) IsEqual(_ Value) bool { return false }

func NewValueError() Value { return ValueError{} }
