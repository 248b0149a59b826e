package value

import (
	"strconv"
	"unicode/utf8"
)

type ValueString struct {
	Inner string
}

func (_ ValueString) Kind() ValueKind    { return StringValueKind }
func (self ValueString) Display() string { return strconv.Quote(self.Inner) }
func (self ValueString) IsEqual(other Value) bool {
	otherString, ok := other.(ValueString)
	return ok && self.Inner == otherString.Inner
}

// Len returns the number of code points in the string.
func (self ValueString) Len() uint { return uint(utf8.RuneCountInString(self.Inner)) }

func NewValueString(inner string) Value { return ValueString{Inner: inner} }
