package defscript

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runTest struct {
	Name        string
	Program     string
	Values      map[string]value.Value
	Order       []string
	Expressions []value.Value
}

var runTests = []runTest{
	{
		Name:    "Arithmetic",
		Program: "a = 1 + 2; b = 3 ** 2;",
		Values:  map[string]value.Value{"a": value.NewValueNumber(3), "b": value.NewValueNumber(9)},
		Order:   []string{"a", "b"},
	},
	{
		Name:    "OutOfOrder",
		Program: "greeting = name * 2; name = 'nice';",
		Values: map[string]value.Value{
			"greeting": value.NewValueString("nicenice"),
			"name":     value.NewValueString("nice"),
		},
		Order: []string{"name", "greeting"},
	},
	{
		Name:    "MultiTarget",
		Program: "these = are = all = 12;",
		Values: map[string]value.Value{
			"these": value.NewValueNumber(12),
			"are":   value.NewValueNumber(12),
			"all":   value.NewValueNumber(12),
		},
		Order: []string{"these", "are", "all"},
	},
	{
		Name:        "BareExpressions",
		Program:     "x + 1; x = 2; [x, x * 2]",
		Values:      map[string]value.Value{"x": value.NewValueNumber(2)},
		Order:       []string{"x"},
		Expressions: []value.Value{value.NewValueNumber(3), arrayOf(value.NewValueNumber(2), value.NewValueNumber(4))},
	},
	{
		Name: "Conditional",
		Program: `
			limit = 10;
			count = 12;
			status = if count > limit { "over" } else if count == limit { "exact" } else { "under" };
		`,
		Values: map[string]value.Value{
			"limit":  value.NewValueNumber(10),
			"count":  value.NewValueNumber(12),
			"status": value.NewValueString("over"),
		},
		Order: []string{"limit", "count", "status"},
	},
	{
		Name:    "BlockLocalAssignment",
		Program: "x = if true { y = 1; y + 1 } else { 3 }; y = 10;",
		Values:  map[string]value.Value{"x": value.NewValueNumber(2), "y": value.NewValueNumber(10)},
		Order:   []string{"x", "y"},
	},
	{
		Name:    "HugeNumber",
		Program: "big = 1e400; small = -1e400;",
		Values:  map[string]value.Value{"big": value.NewValueNumber(math.Inf(1)), "small": value.NewValueNumber(math.Inf(-1))},
		Order:   []string{"big", "small"},
	},
	{
		Name:    "Membership",
		Program: "a = 12 in [10, 11, 12, 13, 14]; b = 'ni' in 'nice';",
		Values:  map[string]value.Value{"a": value.NewValueBool(true), "b": value.NewValueBool(true)},
		Order:   []string{"a", "b"},
	},
	{
		Name:    "Slicing",
		Program: "word = 'sickening'; reversed = word[-4..=3]; forward = word[3..=5];",
		Values: map[string]value.Value{
			"word":     value.NewValueString("sickening"),
			"reversed": value.NewValueString("nek"),
			"forward":  value.NewValueString("ken"),
		},
		Order: []string{"word", "reversed", "forward"},
	},
}

func arrayOf(values ...value.Value) value.Value {
	elements := make([]value.SpannedValue, 0)
	for _, element := range values {
		elements = append(elements, value.NewSpannedValue(element, errors.Span{}))
	}
	return value.NewValueArray(elements)
}

func TestRun(t *testing.T) {
	for _, test := range runTests {
		t.Run(test.Name, func(t *testing.T) {
			result, errs := Run(test.Program)
			require.Empty(t, errs, spew.Sdump(errs))

			assert.Equal(t, test.Order, result.Order)
			require.Len(t, result.Values, len(test.Values))
			for name, expected := range test.Values {
				actual, found := result.Values[name]
				require.True(t, found, "missing value for %s", name)
				assert.True(t, expected.IsEqual(actual.Value), "%s: expected %s, got %s", name, expected.Display(), actual.Value.Display())
			}

			require.Len(t, result.Expressions, len(test.Expressions))
			for idx, expected := range test.Expressions {
				assert.True(t, expected.IsEqual(result.Expressions[idx].Value))
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Program string
		Kinds   []errors.ErrorKind
	}{
		{Name: "Lexer", Program: "a = 'never closed", Kinds: []errors.ErrorKind{errors.SyntaxErrorKind}},
		{Name: "Parser", Program: "a = (1 + ;", Kinds: []errors.ErrorKind{errors.SyntaxErrorKind}},
		{Name: "Recursion", Program: "a = b; b = a;", Kinds: []errors.ErrorKind{errors.RecursionErrorKind}},
		{Name: "Reference", Program: "x = y + 1;", Kinds: []errors.ErrorKind{errors.ReferenceErrorKind}},
		{Name: "Reassign", Program: "a = 1; a = 2;", Kinds: []errors.ErrorKind{errors.ReassignErrorKind}},
		{Name: "StringTimesString", Program: `a = "nice" * "cool";`, Kinds: []errors.ErrorKind{errors.TypeErrorKind}},
		{Name: "NestedTypeError", Program: `a = 3 * (3.5 * "cool");`, Kinds: []errors.ErrorKind{errors.TypeErrorKind}},
		{Name: "OutOfBounds", Program: "a = [1, 2, 3][3];", Kinds: []errors.ErrorKind{errors.IndexErrorKind}},
		{Name: "NumberInString", Program: `a = 12 in "nice";`, Kinds: []errors.ErrorKind{errors.TypeErrorKind}},
		{
			Name:    "IndependentFailures",
			Program: "a = 1 + true; b = [][0]; c = 1;",
			Kinds:   []errors.ErrorKind{errors.TypeErrorKind, errors.IndexErrorKind},
		},
		{
			// dependents of a failed name are skipped silently
			Name:    "NoCascade",
			Program: `a = "a" * "b"; b = a + 1; c = [a, b]; a + b`,
			Kinds:   []errors.ErrorKind{errors.TypeErrorKind},
		},
		{Name: "RepeatTooLong", Program: `a = "ab" * 1e18;`, Kinds: []errors.ErrorKind{errors.TypeErrorKind}},
		{Name: "NullEquality", Program: "a = null == null;", Kinds: []errors.ErrorKind{errors.TypeErrorKind}},
		{Name: "NoShortCircuit", Program: "a = false and missing;", Kinds: []errors.ErrorKind{errors.ReferenceErrorKind}},
		{Name: "MismatchedCloser", Program: "a = (1 + ]; b = 2;", Kinds: []errors.ErrorKind{errors.SyntaxErrorKind}},
		{Name: "UndefinedInExpression", Program: "missing * 2", Kinds: []errors.ErrorKind{errors.ReferenceErrorKind}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, errs := Run(test.Program)

			kinds := make([]errors.ErrorKind, 0)
			for _, err := range errs {
				kinds = append(kinds, err.Kind())
			}
			assert.Equal(t, test.Kinds, kinds, spew.Sdump(errs))
		})
	}
}

func TestIndexErrorLength(t *testing.T) {
	_, errs := Run("a = [1, 2, 3][3];")
	require.Len(t, errs, 1)
	assert.Equal(t, uint(3), errs[0].(*errors.IndexError).Length)
}

func TestRecursionChain(t *testing.T) {
	_, errs := Run("a = b; b = a;")
	require.Len(t, errs, 1)
	assert.Contains(t, [][]string{{"a", "b"}, {"b", "a"}}, errs[0].(*errors.RecursionError).Chain)
}

func TestPartialResult(t *testing.T) {
	result, errs := Run("ok = 1; broken = ok + 'x'; also = ok * 2;")
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"ok", "also"}, result.Order)
	assert.NotContains(t, result.Values, "broken")
}

func TestResolveAndEvaluateIsIdempotent(t *testing.T) {
	tokens, errs := Lex("c = b * 2; b = a + 1; a = 1; [a, b, c]; d = 'x' * c;")
	require.Empty(t, errs)
	statements, errs := Parse(tokens)
	require.Empty(t, errs)

	first, errs := ResolveAndEvaluate(statements)
	require.Empty(t, errs)
	second, errs := ResolveAndEvaluate(statements)
	require.Empty(t, errs)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c", "d"}, first.Order)
}

func TestAssignedValuesKeepValueSpan(t *testing.T) {
	result, errs := Run("name = 'abc';")
	require.Empty(t, errs)
	assert.Equal(t, errors.NewSpan(7, 12), result.Values["name"].Span)
}

func TestWithLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, errs := Run("a = 1; b = a;", WithLogger(logger))
	require.Empty(t, errs)

	output := buffer.String()
	assert.Contains(t, output, "Lexed program")
	assert.Contains(t, output, "Parsed program")
	assert.Contains(t, output, "Resolved dependencies")
	assert.Contains(t, output, "rounds=2")
	assert.Contains(t, output, "Evaluated assignment")
}
