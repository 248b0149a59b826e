package value

import (
	"math"
	"strconv"
)

type ValueNumber struct {
	Inner float64
}

func (_ ValueNumber) Kind() ValueKind    { return NumberValueKind }
func (self ValueNumber) Display() string { return FormatNumber(self.Inner) }
func (self ValueNumber) IsEqual(other Value) bool {
	otherNumber, ok := other.(ValueNumber)
	return ok && self.Inner == otherNumber.Inner
}

func NewValueNumber(inner float64) Value { return ValueNumber{Inner: inner} }

// Integral numbers inside this bound are printed without an exponent.
const maxPlainInteger = 1e15

// FormatNumber prints integral numbers without a fraction and all other numbers in their shortest form.
func FormatNumber(number float64) string {
	if number == math.Trunc(number) && math.Abs(number) < maxPlainInteger {
		return strconv.FormatInt(int64(number), 10)
	}
	return strconv.FormatFloat(number, 'g', -1, 64)
}

// AsInteger returns the number as an int64 if it is integral and representable.
func AsInteger(number float64) (int64, bool) {
	if number != math.Trunc(number) || math.IsInf(number, 0) {
		return 0, false
	}
	if number < math.MinInt64 || number >= math.MaxInt64 {
		return 0, false
	}
	return int64(number), true
}
