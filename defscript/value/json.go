package value

import (
	"fmt"
	"math"
)

// NativeRange is the native representation of both range kinds.
type NativeRange struct {
	Start     int64 `json:"start" yaml:"start"`
	End       int64 `json:"end" yaml:"end"`
	Inclusive bool  `json:"inclusive" yaml:"inclusive"`
}

// ToNative converts a value into plain Go values which can be encoded as JSON or YAML.
// Integral numbers become `int64`, an assignment result is represented by its assigned value.
func ToNative(self Value) any {
	switch self := self.(type) {
	case ValueNumber:
		if integer, ok := AsInteger(self.Inner); ok && float64(integer) == self.Inner {
			return integer
		}
		// JSON cannot represent infinity and NaN
		if math.IsInf(self.Inner, 0) || math.IsNaN(self.Inner) {
			return FormatNumber(self.Inner)
		}
		return self.Inner
	case ValueString:
		return self.Inner
	case ValueBool:
		return self.Inner
	case ValueArray:
		output := make([]any, 0, len(self.Values))
		for _, element := range self.Values {
			output = append(output, ToNative(element.Value))
		}
		return output
	case ValueRange:
		return NativeRange{
			Start:     self.Start,
			End:       self.End,
			Inclusive: self.EndIsInclusive,
		}
	case ValueAssign:
		return ToNative(self.Inner)
	case ValueNull, ValueError, nil:
		return nil
	default:
		panic(fmt.Sprintf("A new value kind was introduced without updating this code: %s", self.Kind()))
	}
}
