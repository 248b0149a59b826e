package parser

import (
	"fmt"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/lexer"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

// Unknown operator clusters bind stronger than anything so that the infix loop reports them.
const unknownOperatorPower uint8 = 254

func (self *Parser) recordErr(err errors.Error) {
	self.Errors = append(self.Errors, err)
}

func (self *Parser) expect(expected lexer.TokenKind) errors.Error {
	if self.CurrentToken.Kind != expected {
		return self.expectedErr(expected)
	}

	self.next()
	return nil
}

func (self Parser) expectedErr(expected lexer.TokenKind) errors.Error {
	return errors.NewSyntaxError(
		self.CurrentToken.Span,
		fmt.Sprintf("Expected '%s', found %s", expected, describe(self.CurrentToken)),
	)
}

func (self Parser) expectedOneOfErr(expected []lexer.TokenKind) errors.Error {
	message := ""

	if len(expected) == 2 {
		message = fmt.Sprintf("either '%s' or '%s'", expected[0], expected[1])
	} else {
		for idx, expectedItem := range expected {
			if idx == len(expected)-1 {
				message += ", or "
			} else if message != "" {
				message += ", "
			}
			message += fmt.Sprintf("'%s'", expectedItem)
		}
	}

	return errors.NewSyntaxError(
		self.CurrentToken.Span,
		fmt.Sprintf("Expected %s, found %s", message, describe(self.CurrentToken)),
	)
}

func describe(token lexer.Token) string {
	switch token.Kind {
	case lexer.Operator:
		return fmt.Sprintf("operator '%s'", token.Value)
	case lexer.EOF:
		return "end of input"
	case lexer.Identifier:
		return fmt.Sprintf("identifier '%s'", token.Value)
	case lexer.Number:
		return fmt.Sprintf("number '%s'", token.Value)
	case lexer.String:
		return fmt.Sprintf("string %s", token)
	default:
		return fmt.Sprintf("'%s'", token.Kind)
	}
}

// prec returns the binding power of the current token in infix / postfix position.
func (self Parser) prec() (left uint8, right uint8) {
	switch self.CurrentToken.Kind {
	case lexer.LBracket:
		return ast.PostfixBindingPower, 0
	case lexer.Operator:
		op, ok := ast.ParseInfixOperator(self.CurrentToken.Value)
		if !ok {
			return unknownOperatorPower, 0
		}
		return op.BindingPower()
	default:
		return 0, 0
	}
}

//
// Error recovery
//

// skipGroup skips to the token closing the group which is currently being parsed and consumes it.
// Nested groups are skipped as a whole. Recovery gives up at a closer of a different kind
// or at the end of input. Unless `allowSemicolon` is set, it also gives up at a `;` which is not nested.
// The returned span covers `start` up to the last consumed token.
func (self *Parser) skipGroup(start errors.Span, closer lexer.TokenKind, allowSemicolon bool) errors.Span {
	nesting := 0

loop:
	for self.CurrentToken.Kind != lexer.EOF {
		switch self.CurrentToken.Kind {
		case lexer.LParen, lexer.LBracket, lexer.LCurly:
			nesting++
		case lexer.RParen, lexer.RBracket, lexer.RCurly:
			if nesting == 0 {
				if self.CurrentToken.Kind == closer {
					self.next()
				}
				break loop
			}
			nesting--
		case lexer.Semicolon:
			if nesting == 0 && !allowSemicolon {
				break loop
			}
		}
		self.next()
	}

	if self.PreviousToken.Span.End < start.End {
		return start
	}
	return start.Until(self.PreviousToken.Span)
}
