package lexer

import (
	"testing"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	Kind  TokenKind
	Value string
}

type lexerTest struct {
	Name           string
	Program        string
	Expected       []expectedToken
	ExpectedErrors []string
}

var lexerTests = []lexerTest{
	{
		Name:    "Assignment",
		Program: "a = 30-5;",
		Expected: []expectedToken{
			{Identifier, "a"},
			{Operator, "="},
			{Number, "30"},
			{Operator, "-"},
			{Number, "5"},
			{Semicolon, ";"},
		},
	},
	{
		Name:    "NegativeAfterOperator",
		Program: "2*-3",
		Expected: []expectedToken{
			{Number, "2"},
			{Operator, "*"},
			{Number, "-3"},
		},
	},
	{
		Name:    "FractionAndExponent",
		Program: "x = -1.5e-3 + 2E4",
		Expected: []expectedToken{
			{Identifier, "x"},
			{Operator, "="},
			{Number, "-1.5e-3"},
			{Operator, "+"},
			{Number, "2E4"},
		},
	},
	{
		Name:    "ExponentWithoutDigits",
		Program: "2e",
		Expected: []expectedToken{
			{Number, "2"},
			{Identifier, "e"},
		},
	},
	{
		Name:    "Ranges",
		Program: "1..=3 0..x",
		Expected: []expectedToken{
			{Number, "1"},
			{Operator, "..="},
			{Number, "3"},
			{Number, "0"},
			{Operator, ".."},
			{Identifier, "x"},
		},
	},
	{
		Name:    "Strings",
		Program: `'it\'s' "a\tb" "A\/"`,
		Expected: []expectedToken{
			{String, "it's"},
			{String, "a\tb"},
			{String, "A/"},
		},
	},
	{
		Name:    "WordOperators",
		Program: "a and b || !c in d",
		Expected: []expectedToken{
			{Identifier, "a"},
			{Operator, "and"},
			{Identifier, "b"},
			{Operator, "||"},
			{Operator, "!"},
			{Identifier, "c"},
			{Operator, "in"},
			{Identifier, "d"},
		},
	},
	{
		Name:    "Keywords",
		Program: "if true { null } else { false_ }",
		Expected: []expectedToken{
			{If, "if"},
			{True, "true"},
			{LCurly, "{"},
			{Null, "null"},
			{RCurly, "}"},
			{Else, "else"},
			{LCurly, "{"},
			{Identifier, "false_"},
			{RCurly, "}"},
		},
	},
	{
		Name:    "Comments",
		Program: "1 // one\n// two\n[2,]",
		Expected: []expectedToken{
			{Number, "1"},
			{LBracket, "["},
			{Number, "2"},
			{Comma, ","},
			{RBracket, "]"},
		},
	},
	{
		Name:    "OperatorBeforeComment",
		Program: "a +// plus\nb",
		Expected: []expectedToken{
			{Identifier, "a"},
			{Operator, "+"},
			{Identifier, "b"},
		},
	},
	{
		Name:    "UnknownCluster",
		Program: "a <=> b",
		Expected: []expectedToken{
			{Identifier, "a"},
			{Operator, "<=>"},
			{Identifier, "b"},
		},
	},
	{
		Name:    "IllegalCharacter",
		Program: "1 # 2 $",
		Expected: []expectedToken{
			{Number, "1"},
			{Number, "2"},
		},
		ExpectedErrors: []string{"Illegal character: '#'", "Illegal character: '$'"},
	},
	{
		Name:           "UnterminatedString",
		Program:        `"abc`,
		Expected:       []expectedToken{{String, "abc"}},
		ExpectedErrors: []string{"String literal never closed"},
	},
	{
		Name:           "InvalidEscape",
		Program:        `"a\xb"`,
		Expected:       []expectedToken{{String, "ab"}},
		ExpectedErrors: []string{"Invalid escape sequence"},
	},
	{
		Name:           "ShortUnicodeEscape",
		Program:        `"\u12"`,
		Expected:       []expectedToken{{String, ""}},
		ExpectedErrors: []string{"Invalid unicode escape sequence: expected 4 hexadecimal digits"},
	},
	{
		Name:           "InvalidCodePoint",
		Program:        `"\uD800!"`,
		Expected:       []expectedToken{{String, "�!"}},
		ExpectedErrors: []string{"Invalid unicode character: U+D800"},
	},
}

func TestLexer(t *testing.T) {
	for _, test := range lexerTests {
		t.Run(test.Name, func(t *testing.T) {
			tokens, errs := Lex(test.Program)

			require.NotEmpty(t, tokens)
			assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)

			actual := make([]expectedToken, 0)
			for _, token := range tokens[:len(tokens)-1] {
				actual = append(actual, expectedToken{token.Kind, token.Value})
			}
			assert.Equal(t, test.Expected, actual)

			messages := make([]string, 0)
			for _, err := range errs {
				assert.Equal(t, errors.SyntaxErrorKind, err.Kind())
				messages = append(messages, err.(*errors.SyntaxError).Message)
			}
			if test.ExpectedErrors == nil {
				assert.Empty(t, messages)
			} else {
				assert.Equal(t, test.ExpectedErrors, messages)
			}
		})
	}
}

func TestLexerSpans(t *testing.T) {
	tokens, errs := Lex("ab + 'ü'\n")
	assert.Nil(t, errs)
	require.Len(t, tokens, 4)

	assert.Equal(t, errors.NewSpan(0, 2), tokens[0].Span)
	assert.Equal(t, errors.NewSpan(3, 4), tokens[1].Span)
	assert.Equal(t, errors.NewSpan(5, 9), tokens[2].Span)
	assert.Equal(t, errors.NewSpan(10, 10), tokens[3].Span)
}

func TestIllegalCharacterSpan(t *testing.T) {
	_, errs := Lex("1 € 2")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.NewSpan(2, 5), errs[0].Span())
}

func TestIsIdent(t *testing.T) {
	assert.True(t, IsIdent("foo_bar2"))
	assert.True(t, IsIdent("_"))
	assert.False(t, IsIdent("2foo"))
	assert.False(t, IsIdent("foo-bar"))
	assert.False(t, IsIdent(""))
}
