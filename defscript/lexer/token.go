package lexer

import (
	"fmt"

	"github.com/smarthome-go/defscript/defscript/errors"
)

type Token struct {
	Kind  TokenKind
	Value string
	Span  errors.Span
}

func (self Token) String() string {
	switch self.Kind {
	case Identifier, Number, Operator:
		return self.Value
	case String:
		return fmt.Sprintf("%q", self.Value)
	default:
		return self.Kind.String()
	}
}

type TokenKind uint8

const (
	Unknown TokenKind = iota
	EOF

	Semicolon // ;
	Comma     // ,

	LParen   // (
	RParen   // )
	LCurly   // {
	RCurly   // }
	LBracket // [
	RBracket // ]

	// A cluster of operator characters such as `+`, `**` or `!=`.
	// Also used for `..`, `..=` and the word operators `and`, `or` and `in`.
	// The parser decides whether the cluster is a known operator.
	Operator

	If   // if
	Else // else

	True  // true
	False // false
	Null  // null

	String     // "foo" or 'foo' (value excludes the quotes)
	Number     // 42, -3.14, 1e-3
	Identifier // foobar
)

func newToken(kind TokenKind, value string, span errors.Span) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Span:  span,
	}
}

func (self TokenKind) String() string {
	var display string
	switch self {
	case Unknown:
		display = "unknown"
	case EOF:
		display = "EOF"
	case Semicolon:
		display = ";"
	case Comma:
		display = ","
	case LParen:
		display = "("
	case RParen:
		display = ")"
	case LCurly:
		display = "{"
	case RCurly:
		display = "}"
	case LBracket:
		display = "["
	case RBracket:
		display = "]"
	case Operator:
		display = "operator"
	case If:
		display = "if"
	case Else:
		display = "else"
	case True:
		display = "true"
	case False:
		display = "false"
	case Null:
		display = "null"
	case String:
		display = "string"
	case Number:
		display = "number"
	case Identifier:
		display = "identifier"
	default:
		panic("A new token was introduced without updating this code")
	}
	return display
}

// EndsOperand reports whether a token of this kind can be the last token of an operand.
// The lexer uses this to decide whether a `-` starts a negative number or is an operator.
func (self TokenKind) EndsOperand() bool {
	switch self {
	case Number, String, Identifier, True, False, Null, RParen, RBracket, RCurly:
		return true
	default:
		return false
	}
}
