package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/lexer"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

//
// Expression
//

func (self *Parser) expression(prec uint8) (ast.Expression, errors.Error) {
	var lhs ast.Expression

	switch self.CurrentToken.Kind {
	case lexer.Number:
		number, err := self.numberLiteral()
		if err != nil {
			return nil, err
		}
		lhs = number
	case lexer.String:
		lhs = ast.StringLiteralExpression{Value: self.CurrentToken.Value, Range: self.CurrentToken.Span}
		self.next()
	case lexer.True, lexer.False:
		lhs = ast.BoolLiteralExpression{Value: self.CurrentToken.Kind == lexer.True, Range: self.CurrentToken.Span}
		self.next()
	case lexer.Null:
		lhs = ast.NullLiteralExpression{Range: self.CurrentToken.Span}
		self.next()
	case lexer.Identifier:
		lhs = ast.IdentExpression{Ident: ast.NewSpannedIdent(self.CurrentToken.Value, self.CurrentToken.Span)}
		self.next()
	case lexer.LParen:
		lhs = self.groupedExpression()
	case lexer.LBracket:
		lhs = self.arrayLiteral()
	case lexer.If:
		ifExpr, err := self.ifExpression()
		if err != nil {
			return nil, err
		}
		lhs = ifExpr
	case lexer.Operator:
		if !isNegation(self.CurrentToken.Value) {
			return nil, errors.NewSyntaxError(
				self.CurrentToken.Span,
				fmt.Sprintf("Expected expression, found %s", describe(self.CurrentToken)),
			)
		}
		prefixExpr, err := self.prefixExpression()
		if err != nil {
			return nil, err
		}
		lhs = prefixExpr
	default:
		return nil, errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Expected expression, found %s", describe(self.CurrentToken)),
		)
	}

	for left, _ := self.prec(); left > prec; left, _ = self.prec() {
		switch self.CurrentToken.Kind {
		case lexer.LBracket:
			lhs = self.indexExpression(lhs)
		case lexer.Operator:
			newLhs, err := self.infixExpression(lhs)
			if err != nil {
				return nil, err
			}
			lhs = newLhs
		default:
			panic(fmt.Sprintf("Unreachable: token `%s` has a binding power but is not an operator", self.CurrentToken.Kind))
		}
	}

	return lhs, nil
}

//
// Number literal
//

func (self *Parser) numberLiteral() (ast.NumberLiteralExpression, errors.Error) {
	token := self.CurrentToken

	// Literals beyond the float range become +Inf or -Inf
	value, err := strconv.ParseFloat(token.Value, 64)
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		err = nil
	}
	if err != nil {
		return ast.NumberLiteralExpression{}, errors.NewSyntaxError(
			token.Span,
			fmt.Sprintf("Invalid number literal '%s'", token.Value),
		)
	}

	self.next()
	return ast.NumberLiteralExpression{
		Value: value,
		Range: token.Span,
	}, nil
}

//
// Grouped expression
//

func (self *Parser) groupedExpression() ast.Expression {
	start := self.CurrentToken.Span

	// skip opening `(`
	self.next()

	inner, err := self.expression(0)
	if err == nil {
		err = self.expect(lexer.RParen)
	}

	if err != nil {
		self.recordErr(err)
		return ast.ErrorExpression{Range: self.skipGroup(start, lexer.RParen, false)}
	}

	return inner
}

//
// Array literal
//

func (self *Parser) arrayLiteral() ast.Expression {
	start := self.CurrentToken.Span

	values, err := self.arrayValues()
	if err != nil {
		self.recordErr(err)
		return ast.ErrorExpression{Range: self.skipGroup(start, lexer.RBracket, false)}
	}

	return ast.ArrayLiteralExpression{
		Values: values,
		Range:  start.Until(self.PreviousToken.Span),
	}
}

func (self *Parser) arrayValues() ([]ast.Expression, errors.Error) {
	// skip opening `[`
	self.next()

	values := make([]ast.Expression, 0)

	for self.CurrentToken.Kind != lexer.RBracket {
		value, err := self.expression(0)
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if self.CurrentToken.Kind == lexer.Comma {
			self.next()
			continue
		}

		if self.CurrentToken.Kind != lexer.RBracket {
			return nil, self.expectedOneOfErr([]lexer.TokenKind{lexer.Comma, lexer.RBracket})
		}
	}

	// skip closing `]`
	self.next()
	return values, nil
}

//
// Prefix expression
//

// isNegation reports whether the cluster only consists of `!` characters.
func isNegation(cluster string) bool {
	return len(cluster) > 0 && strings.Trim(cluster, "!") == ""
}

// prefixExpression parses a run of `!` and its base.
// The lexer merges repeated `!` into one cluster, each one is a separate negation.
func (self *Parser) prefixExpression() (ast.Expression, errors.Error) {
	start := self.CurrentToken.Span
	count := len(self.CurrentToken.Value)
	self.next()

	base, err := self.expression(ast.PrefixBindingPower)
	if err != nil {
		return nil, err
	}

	for idx := count - 1; idx >= 0; idx-- {
		opStart := start.Start + uint(idx)
		base = ast.PrefixExpression{
			Operator: ast.NegatePrefixOperator,
			Base:     base,
			Range:    errors.NewSpan(opStart, base.Span().End),
		}
	}

	return base, nil
}

//
// Infix expression
//

func (self *Parser) infixExpression(lhs ast.Expression) (ast.Expression, errors.Error) {
	op, ok := ast.ParseInfixOperator(self.CurrentToken.Value)
	if !ok {
		if self.CurrentToken.Value == "=" {
			return nil, errors.NewSyntaxError(
				self.CurrentToken.Span,
				"Only names can be assigned to",
			)
		}
		return nil, errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Unknown operator '%s'", self.CurrentToken.Value),
		)
	}

	_, rhsPrec := op.BindingPower()
	self.next()

	rhs, err := self.expression(rhsPrec)
	if err != nil {
		return nil, err
	}

	return ast.InfixExpression{
		Lhs:      lhs,
		Rhs:      rhs,
		Operator: op,
		Range:    lhs.Span().Until(rhs.Span()),
	}, nil
}

//
// Index expression
//

func (self *Parser) indexExpression(base ast.Expression) ast.Expression {
	start := self.CurrentToken.Span

	// skip opening bracket
	self.next()

	index, err := self.expression(0)
	if err == nil {
		err = self.expect(lexer.RBracket)
	}

	if err != nil {
		self.recordErr(err)
		errorSpan := self.skipGroup(start, lexer.RBracket, false)
		return ast.IndexExpression{
			Base:  base,
			Index: ast.ErrorExpression{Range: errorSpan},
			Range: base.Span().Until(errorSpan),
		}
	}

	return ast.IndexExpression{
		Base:  base,
		Index: index,
		Range: base.Span().Until(self.PreviousToken.Span),
	}
}

//
// If expression
//

func (self *Parser) ifExpression() (ast.IfExpression, errors.Error) {
	start := self.CurrentToken.Span

	// skip the `if`
	self.next()

	condition, err := self.expression(0)
	if err != nil {
		return ast.IfExpression{}, err
	}

	thenBlock, err := self.block()
	if err != nil {
		return ast.IfExpression{}, err
	}

	if err := self.expect(lexer.Else); err != nil {
		return ast.IfExpression{}, err
	}

	// make `else if` or `else` block
	var elseBlock ast.Block
	elseIsIf := self.CurrentToken.Kind == lexer.If

	if elseIsIf {
		elseIf, err := self.ifExpression()
		if err != nil {
			return ast.IfExpression{}, err
		}
		elseBlock = ast.Block{
			Expressions: []ast.Expression{elseIf},
			Range:       elseIf.Range,
		}
	} else {
		block, err := self.block()
		if err != nil {
			return ast.IfExpression{}, err
		}
		elseBlock = block
	}

	return ast.IfExpression{
		Condition: condition,
		ThenBlock: thenBlock,
		ElseBlock: elseBlock,
		ElseIsIf:  elseIsIf,
		Range:     start.Until(self.PreviousToken.Span),
	}, nil
}

//
// Block
//

func (self *Parser) block() (ast.Block, errors.Error) {
	start := self.CurrentToken.Span

	if err := self.expect(lexer.LCurly); err != nil {
		return ast.Block{}, err
	}

	errCount := len(self.Errors)

	expressions, err := self.blockContents()
	if err != nil {
		if len(self.Errors) == errCount {
			self.recordErr(err)
		}
		errorSpan := self.skipGroup(start, lexer.RCurly, true)
		return ast.Block{
			Expressions: []ast.Expression{ast.ErrorExpression{Range: errorSpan}},
			Range:       errorSpan,
		}, nil
	}

	return ast.Block{
		Expressions: expressions,
		Range:       start.Until(self.PreviousToken.Span),
	}, nil
}

func (self *Parser) blockContents() ([]ast.Expression, errors.Error) {
	expressions := make([]ast.Expression, 0)

	for {
		if self.CurrentToken.Kind == lexer.Identifier && isAssignOperator(self.peek()) {
			// the assignment consumes its own `;`
			assign, err := self.assignment()
			if err != nil {
				return nil, err
			}
			expressions = append(expressions, assign)

			if self.CurrentToken.Kind == lexer.RCurly {
				break
			}
			continue
		}

		expr, err := self.expression(0)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)

		if self.CurrentToken.Kind == lexer.Semicolon {
			self.next()
			if self.CurrentToken.Kind == lexer.RCurly {
				break
			}
			continue
		}

		if self.CurrentToken.Kind == lexer.RCurly {
			break
		}

		return nil, self.expectedOneOfErr([]lexer.TokenKind{lexer.Semicolon, lexer.RCurly})
	}

	// skip closing `}`
	self.next()
	return expressions, nil
}
