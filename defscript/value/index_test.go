package value

import (
	"math"
	"testing"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexTest struct {
	Name     string
	Base     Value
	Index    Value
	Expected Value
}

var indexTests = []indexTest{
	{"ArrayLast", array(num(1), num(2), num(3), num(4)), num(3), num(4)},
	{"ArrayNegative", array(num(1), num(2), num(3)), num(-1), num(3)},
	{"ArrayNegativeFirst", array(num(1), num(2), num(3)), num(-3), num(1)},
	{"StringCodePoint", str("héllo"), num(1), str("é")},
	{"StringNegative", str("nice"), num(-2), str("c")},
	{"Slice", array(num(1), num(2), num(3)), NewValueRange(0, 2, false), array(num(1), num(2))},
	{"SliceInclusive", array(num(1), num(2), num(3)), NewValueRange(0, 2, true), array(num(1), num(2), num(3))},
	{"SliceEmpty", str("nice"), NewValueRange(2, 2, false), str("")},
	{"SliceString", str("sickening"), NewValueRange(3, 5, true), str("ken")},
	{"SliceReversedInclusive", str("sickening"), NewValueRange(-4, 3, true), str("nek")},
	{"SliceReversedExclusive", str("wonderful"), NewValueRange(-1, 4, false), str("lufr")},
	{"SliceNegativeBounds", str("wonderful"), NewValueRange(-3, -1, false), str("fu")},
	{"SliceUnicode", str("äöü!"), NewValueRange(1, -1, true), str("öü!")},
}

func TestIndex(t *testing.T) {
	for _, test := range indexTests {
		t.Run(test.Name, func(t *testing.T) {
			result, err := Index(lhs(test.Base), rhs(test.Index))
			require.NoError(t, err)
			assert.True(t, test.Expected.IsEqual(result), "expected %s, got %s", test.Expected.Display(), result.Display())
		})
	}
}

func TestReversedSliceMatchesReverse(t *testing.T) {
	reversed, err := Index(lhs(str("sickening")), rhs(NewValueRange(-4, 3, true)))
	require.NoError(t, err)

	forward, err := Index(lhs(str("sickening")), rhs(NewValueRange(3, 5, true)))
	require.NoError(t, err)

	runes := []rune(forward.(ValueString).Inner)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	assert.Equal(t, string(runes), reversed.(ValueString).Inner)
}

func TestIndexOutOfBounds(t *testing.T) {
	_, err := Index(lhs(array(num(1), num(2), num(3))), rhs(num(3)))
	require.Error(t, err)
	require.Equal(t, errors.IndexErrorKind, err.Kind())

	indexError := err.(*errors.IndexError)
	assert.Equal(t, int64(3), indexError.Index)
	assert.Equal(t, uint(3), indexError.Length)
	assert.Equal(t, lhsSpan, indexError.BaseSpan)
	assert.Equal(t, rhsSpan, indexError.IndexSpan)
	assert.True(t, indexError.IsOffByOne())

	_, err = Index(lhs(str("abc")), rhs(num(-4)))
	require.Error(t, err)
	assert.False(t, err.(*errors.IndexError).IsOffByOne())

	_, err = Index(lhs(array()), rhs(num(0)))
	require.Error(t, err)
	assert.Equal(t, errors.IndexErrorKind, err.Kind())
}

func TestRangeIndexOutOfBounds(t *testing.T) {
	// the end of an exclusive range is checked like any other index
	_, err := Index(lhs(str("abc")), rhs(NewValueRange(0, 3, false)))
	require.Error(t, err)
	require.Equal(t, errors.RangeIndexErrorKind, err.Kind())

	rangeError := err.(*errors.RangeIndexError)
	assert.Equal(t, "0..3", rangeError.RangeString())
	assert.Equal(t, uint(3), rangeError.Length)

	_, err = Index(lhs(array(num(1))), rhs(NewValueRange(-2, 0, true)))
	require.Error(t, err)
	assert.Equal(t, "-2..=0", err.(*errors.RangeIndexError).RangeString())
}

func TestIndexTypeErrors(t *testing.T) {
	_, err := Index(lhs(num(5)), rhs(num(0)))
	require.Error(t, err)
	assert.Equal(t, IndexOfContextKind, err.(*TypeError).Context.Kind)
	assert.Equal(t, lhsSpan, err.Span())

	_, err = Index(lhs(array(num(1))), rhs(num(0.5)))
	require.Error(t, err)
	assert.Equal(t, IndexContextKind, err.(*TypeError).Context.Kind)
	assert.Equal(t, []ValueKind{IntValueKind}, err.(*TypeError).Expected)

	_, err = Index(lhs(str("a")), rhs(str("a")))
	require.Error(t, err)
	assert.Equal(t, rhsSpan, err.Span())

	result, err := Index(lhs(NewValueError()), rhs(str("a")))
	require.NoError(t, err)
	assert.Equal(t, ErrorValueKind, result.Kind())
}

func TestNormalizeIndex(t *testing.T) {
	position, ok := NormalizeIndex(-1, 3)
	assert.True(t, ok)
	assert.Equal(t, uint(2), position)

	position, ok = NormalizeIndex(2, 3)
	assert.True(t, ok)
	assert.Equal(t, uint(2), position)

	_, ok = NormalizeIndex(3, 3)
	assert.False(t, ok)
	_, ok = NormalizeIndex(-4, 3)
	assert.False(t, ok)
	_, ok = NormalizeIndex(math.MinInt64, 3)
	assert.False(t, ok)
}

func TestToNative(t *testing.T) {
	assert.Equal(t, int64(12), ToNative(num(12)))
	assert.Equal(t, 1.5, ToNative(num(1.5)))
	assert.Equal(t, "+Inf", ToNative(num(math.Inf(1))))
	assert.Equal(t, []any{int64(1), "a", true, nil}, ToNative(array(num(1), str("a"), boolean(true), NewValueNull())))
	assert.Equal(t, NativeRange{Start: -4, End: 3, Inclusive: true}, ToNative(NewValueRange(-4, 3, true)))
	assert.Equal(t, int64(12), ToNative(NewValueAssign([]string{"a", "b"}, num(12))))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, `[1, "a", true, null]`, array(num(1), str("a"), boolean(true), NewValueNull()).Display())
	assert.Equal(t, "1..=3", NewValueRange(1, 3, true).Display())
	assert.Equal(t, "these = are = 12", NewValueAssign([]string{"these", "are"}, num(12)).Display())
}
