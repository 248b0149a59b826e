package value

import (
	"fmt"
	"strings"
)

type ValueArray struct {
	Values []SpannedValue
}

func (_ ValueArray) Kind() ValueKind { return ArrayValueKind }

func (self ValueArray) Display() string {
	inner := make([]string, 0)
	for _, element := range self.Values {
		inner = append(inner, element.Value.Display())
	}
	return fmt.Sprintf("[%s]", strings.Join(inner, ", "))
}

// IsEqual compares the elements of both arrays, spans are ignored.
func (self ValueArray) IsEqual(other Value) bool {
	otherArray, ok := other.(ValueArray)
	if !ok || len(self.Values) != len(otherArray.Values) {
		return false
	}

	for idx, element := range self.Values {
		if !element.Value.IsEqual(otherArray.Values[idx].Value) {
			return false
		}
	}

	return true
}

// Contains reports whether any element is equal to `needle`.
func (self ValueArray) Contains(needle Value) bool {
	for _, element := range self.Values {
		if element.Value.IsEqual(needle) {
			return true
		}
	}
	return false
}

func NewValueArray(values []SpannedValue) Value { return ValueArray{Values: values} }
