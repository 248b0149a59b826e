package value

import (
	"github.com/smarthome-go/defscript/defscript/errors"
)

// NormalizeIndex converts a possibly negative index into a position.
// A negative index counts from the end (-1 is the last element).
func NormalizeIndex(index int64, length uint) (uint, bool) {
	if index < 0 {
		if uint64(length) < uint64(-index) {
			return 0, false
		}
		return length - uint(-index), true
	}

	if uint64(length) <= uint64(index) {
		return 0, false
	}
	return uint(index), true
}

// Index evaluates `base[index]` where `base` is an array or a string and `index` a number or a range.
// Strings are indexed by code point.
func Index(base SpannedValue, index SpannedValue) (Value, errors.Error) {
	if base.IsError() || index.IsError() {
		return NewValueError(), nil
	}

	var length uint
	switch baseValue := base.Value.(type) {
	case ValueArray:
		length = uint(len(baseValue.Values))
	case ValueString:
		length = baseValue.Len()
	default:
		return nil, NewTypeError([]ValueKind{ArrayValueKind, StringValueKind}, base, SimpleContext(IndexOfContextKind))
	}

	switch indexValue := index.Value.(type) {
	case ValueNumber:
		integer, ok := AsInteger(indexValue.Inner)
		if !ok {
			return nil, NewTypeError([]ValueKind{IntValueKind}, index, SimpleContext(IndexContextKind))
		}

		position, ok := NormalizeIndex(integer, length)
		if !ok {
			return nil, &errors.IndexError{
				Index:     integer,
				Length:    length,
				BaseSpan:  base.Span,
				IndexSpan: index.Span,
			}
		}

		return elementAt(base.Value, position), nil
	case ValueRange:
		start, startOk := NormalizeIndex(indexValue.Start, length)
		end, endOk := NormalizeIndex(indexValue.End, length)
		if !startOk || !endOk {
			return nil, &errors.RangeIndexError{
				Start:          indexValue.Start,
				End:            indexValue.End,
				EndIsInclusive: indexValue.EndIsInclusive,
				Length:         length,
				BaseSpan:       base.Span,
				IndexSpan:      index.Span,
			}
		}

		return slice(base.Value, rangePositions(start, end, indexValue.EndIsInclusive)), nil
	default:
		return nil, NewTypeError(
			[]ValueKind{IntValueKind, RangeValueKind, InclusiveRangeValueKind},
			index,
			SimpleContext(IndexContextKind),
		)
	}
}

// rangePositions lists the positions selected by a normalized range.
// If `start` exceeds `end`, the positions are walked downwards.
func rangePositions(start uint, end uint, endIsInclusive bool) []uint {
	positions := make([]uint, 0)

	if start <= end {
		for position := start; position < end; position++ {
			positions = append(positions, position)
		}
	} else {
		for position := start; position > end; position-- {
			positions = append(positions, position)
		}
	}

	if endIsInclusive {
		positions = append(positions, end)
	}

	return positions
}

func elementAt(base Value, position uint) Value {
	switch base := base.(type) {
	case ValueArray:
		return base.Values[position].Value
	case ValueString:
		return NewValueString(string([]rune(base.Inner)[position]))
	default:
		panic("A new type which can be indexed was added without updating this code")
	}
}

func slice(base Value, positions []uint) Value {
	switch base := base.(type) {
	case ValueArray:
		values := make([]SpannedValue, 0, len(positions))
		for _, position := range positions {
			values = append(values, base.Values[position])
		}
		return NewValueArray(values)
	case ValueString:
		runes := []rune(base.Inner)
		output := make([]rune, 0, len(positions))
		for _, position := range positions {
			output = append(output, runes[position])
		}
		return NewValueString(string(output))
	default:
		panic("A new type which can be indexed was added without updating this code")
	}
}
