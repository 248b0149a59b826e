package parser

import (
	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/lexer"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

type Parser struct {
	tokens        []lexer.Token
	position      int
	Errors        []errors.Error
	PreviousToken lexer.Token
	CurrentToken  lexer.Token
}

// NewParser creates a parser over `tokens`.
// A missing trailing EOF token is added automatically.
func NewParser(tokens []lexer.Token) Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		end := uint(0)
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Span.End
		}
		tokens = append(tokens, lexer.Token{
			Kind:  lexer.EOF,
			Value: "EOF",
			Span:  errors.NewSpan(end, end),
		})
	}

	parser := Parser{
		tokens:   tokens,
		position: 0,
		Errors:   make([]errors.Error, 0),
	}
	parser.CurrentToken = tokens[0]
	parser.PreviousToken = lexer.Token{Kind: lexer.Unknown, Span: errors.NewSpan(0, 0)}

	return parser
}

// Parse converts a token sequence into an ordered list of top-level statements.
// All syntax errors of the program are collected before returning.
func Parse(tokens []lexer.Token) ([]ast.Expression, []errors.Error) {
	parser := NewParser(tokens)
	return parser.Parse()
}

func (self *Parser) next() {
	if self.position < len(self.tokens)-1 {
		self.position++
	}
	self.PreviousToken = self.CurrentToken
	self.CurrentToken = self.tokens[self.position]
}

func (self *Parser) peek() lexer.Token {
	if self.position+1 < len(self.tokens) {
		return self.tokens[self.position+1]
	}
	return self.tokens[len(self.tokens)-1]
}

func (self *Parser) Parse() ([]ast.Expression, []errors.Error) {
	statements := self.program()

	if len(self.Errors) > 0 {
		return statements, self.Errors
	}
	return statements, nil
}

func (self *Parser) program() []ast.Expression {
	statements := make([]ast.Expression, 0)

	for self.CurrentToken.Kind != lexer.EOF {
		errCount := len(self.Errors)

		stmt, err := self.statement()
		if err != nil {
			// After a recovered group, the rest of the statement is skipped silently
			if len(self.Errors) == errCount {
				self.Errors = append(self.Errors, err)
			}
			self.synchronize()
			continue
		}

		statements = append(statements, stmt)
	}

	if len(statements) == 0 && len(self.Errors) == 0 {
		self.Errors = append(self.Errors, errors.NewSyntaxError(self.CurrentToken.Span, "Program is empty"))
	}

	return statements
}

// synchronize skips to the token after the next top-level `;`.
func (self *Parser) synchronize() {
	nesting := 0

	for self.CurrentToken.Kind != lexer.EOF {
		switch self.CurrentToken.Kind {
		case lexer.LParen, lexer.LBracket, lexer.LCurly:
			nesting++
		case lexer.RParen, lexer.RBracket, lexer.RCurly:
			if nesting > 0 {
				nesting--
			}
		case lexer.Semicolon:
			if nesting == 0 {
				self.next()
				return
			}
		}
		self.next()
	}
}

//
// Statement
//

func (self *Parser) statement() (ast.Expression, errors.Error) {
	if self.CurrentToken.Kind == lexer.Identifier && isAssignOperator(self.peek()) {
		return self.assignment()
	}

	expr, err := self.expression(0)
	if err != nil {
		return nil, err
	}

	if err := self.expectStatementEnd(); err != nil {
		return nil, err
	}

	return expr, nil
}

// expectStatementEnd consumes the `;` after a bare expression.
// It may be omitted after the last statement of the program.
func (self *Parser) expectStatementEnd() errors.Error {
	switch self.CurrentToken.Kind {
	case lexer.Semicolon:
		self.next()
		return nil
	case lexer.EOF:
		return nil
	default:
		return self.expectedErr(lexer.Semicolon)
	}
}

func isAssignOperator(token lexer.Token) bool {
	return token.Kind == lexer.Operator && token.Value == "="
}

//
// Assignment
//

func (self *Parser) assignment() (ast.Expression, errors.Error) {
	startSpan := self.CurrentToken.Span
	targets := make([]ast.SpannedIdent, 0)

	// make every `name =` target
	for self.CurrentToken.Kind == lexer.Identifier && isAssignOperator(self.peek()) {
		targets = append(targets, ast.NewSpannedIdent(self.CurrentToken.Value, self.CurrentToken.Span))
		self.next()
		self.next()
	}

	value, err := self.expression(0)
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return ast.AssignExpression{
		Targets: targets,
		Value:   value,
		Range:   startSpan.Until(value.Span()),
	}, nil
}
