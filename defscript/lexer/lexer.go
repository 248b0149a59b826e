package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/smarthome-go/defscript/defscript/errors"
)

//
// Lexer
//

type Lexer struct {
	currentIndex int
	currentWidth int
	currentChar  *rune
	nextChar     *rune
	program      string
	previousKind TokenKind
	Errors       []errors.Error
}

func NewLexer(program string) Lexer {
	lexer := Lexer{
		currentIndex: 0,
		program:      program,
		previousKind: Unknown,
		Errors:       make([]errors.Error, 0),
	}
	lexer.load()
	return lexer
}

// Lex converts `program` into a token sequence which always ends with an EOF token.
// Lexical errors do not stop the lexer: the offending input is skipped and lexing resumes.
func Lex(program string) ([]Token, []errors.Error) {
	lexer := NewLexer(program)
	tokens := make([]Token, 0)

	for {
		token := lexer.NextToken()
		tokens = append(tokens, token)
		if token.Kind == EOF {
			break
		}
	}

	if len(lexer.Errors) > 0 {
		return tokens, lexer.Errors
	}
	return tokens, nil
}

// load decodes the current and the next character at `currentIndex`.
func (self *Lexer) load() {
	self.currentChar = nil
	self.nextChar = nil
	self.currentWidth = 0

	if self.currentIndex >= len(self.program) {
		return
	}

	current, width := utf8.DecodeRuneInString(self.program[self.currentIndex:])
	self.currentChar = &current
	self.currentWidth = width

	if self.currentIndex+width >= len(self.program) {
		return
	}

	next, _ := utf8.DecodeRuneInString(self.program[self.currentIndex+width:])
	self.nextChar = &next
}

func (self *Lexer) advance() {
	if self.currentChar == nil {
		return
	}
	self.currentIndex += self.currentWidth
	self.load()
}

func (self *Lexer) offset() uint {
	return uint(self.currentIndex)
}

func (self *Lexer) spanFrom(start uint) errors.Span {
	return errors.NewSpan(start, self.offset())
}

func (self *Lexer) error(span errors.Span, message string) {
	self.Errors = append(self.Errors, errors.NewSyntaxError(span, message))
}

func (self *Lexer) skipLineComment() {
	self.advance()
	self.advance()

	for self.currentChar != nil && *self.currentChar != '\n' {
		self.advance()
	}

	self.advance()
}

func (self *Lexer) NextToken() Token {
	token := self.nextToken()
	self.previousKind = token.Kind
	return token
}

func (self *Lexer) nextToken() Token {
outer:
	for self.currentChar != nil {
		switch *self.currentChar {
		case ' ', '\n', '\t', '\r':
			self.advance()
		case '\'', '"':
			return self.makeString()
		case ';':
			return self.makeSingleChar(Semicolon)
		case ',':
			return self.makeSingleChar(Comma)
		case '(':
			return self.makeSingleChar(LParen)
		case ')':
			return self.makeSingleChar(RParen)
		case '{':
			return self.makeSingleChar(LCurly)
		case '}':
			return self.makeSingleChar(RCurly)
		case '[':
			return self.makeSingleChar(LBracket)
		case ']':
			return self.makeSingleChar(RBracket)
		case '.':
			if self.nextChar != nil && *self.nextChar == '.' {
				return self.makeDots()
			}
			self.illegalChar()
		case '/':
			if self.nextChar != nil && *self.nextChar == '/' {
				self.skipLineComment()
				continue outer
			}
			return self.makeOperator()
		case '-':
			if self.startsNegativeNumber() {
				return self.makeNumber()
			}
			return self.makeOperator()
		default:
			if IsOperatorChar(*self.currentChar) {
				return self.makeOperator()
			}
			if IsDigit(*self.currentChar) {
				return self.makeNumber()
			}
			if IsLetter(*self.currentChar) {
				return self.makeName()
			}
			self.illegalChar()
		}
	}

	return newToken(
		EOF,
		"EOF",
		errors.NewSpan(self.offset(), self.offset()),
	)
}

func (self *Lexer) illegalChar() {
	start := self.offset()
	char := *self.currentChar
	self.advance()
	self.error(self.spanFrom(start), fmt.Sprintf("Illegal character: '%c'", char))
}

// startsNegativeNumber reports whether the `-` at the current position belongs to a number literal.
func (self *Lexer) startsNegativeNumber() bool {
	if self.currentChar == nil || *self.currentChar != '-' {
		return false
	}
	if self.nextChar == nil || !IsDigit(*self.nextChar) {
		return false
	}
	return !self.previousKind.EndsOperand()
}

func (self *Lexer) makeSingleChar(kind TokenKind) Token {
	start := self.offset()
	value := string(*self.currentChar)
	self.advance()
	return newToken(kind, value, self.spanFrom(start))
}

//
// Strings
//

func (self *Lexer) makeString() Token {
	start := self.offset()
	startQuote := *self.currentChar
	var valueBuf []rune

	// skip opening quote
	self.advance()

	for self.currentChar != nil {
		if *self.currentChar == startQuote {
			break
		}
		if *self.currentChar == '\\' {
			if char, ok := self.makeEscapeSequence(); ok {
				valueBuf = append(valueBuf, char)
			}
		} else {
			valueBuf = append(valueBuf, *self.currentChar)
			self.advance()
		}
	}

	// check for closing quote
	if self.currentChar == nil {
		self.error(self.spanFrom(start), "String literal never closed")
		return newToken(String, string(valueBuf), self.spanFrom(start))
	}

	// skip closing quote
	self.advance()

	return newToken(String, string(valueBuf), self.spanFrom(start))
}

// makeEscapeSequence consumes an escape sequence starting at a `\`.
// Invalid sequences are reported and yield `ok = false` so that the caller can continue.
func (self *Lexer) makeEscapeSequence() (char rune, ok bool) {
	start := self.offset()
	self.advance()

	if self.currentChar == nil {
		self.error(self.spanFrom(start), "Unfinished escape sequence")
		return ' ', false
	}

	switch *self.currentChar {
	case '\\', '/', '"', '\'':
		char = *self.currentChar
	case 'b':
		char = '\b'
	case 'f':
		char = '\f'
	case 'n':
		char = '\n'
	case 'r':
		char = '\r'
	case 't':
		char = '\t'
	case 'u':
		return self.unicodeEscape(start)
	default:
		self.advance()
		self.error(self.spanFrom(start), "Invalid escape sequence")
		return ' ', false
	}

	self.advance()
	return char, true
}

func (self *Lexer) unicodeEscape(start uint) (rune, bool) {
	// skip the `u`
	self.advance()

	digits := ""
	for i := 0; i < 4; i++ {
		if self.currentChar == nil || !IsHexDigit(*self.currentChar) {
			self.error(self.spanFrom(start), "Invalid unicode escape sequence: expected 4 hexadecimal digits")
			return ' ', false
		}
		digits += string(*self.currentChar)
		self.advance()
	}

	code, _ := strconv.ParseUint(digits, 16, 32)
	char := rune(code)
	if !utf8.ValidRune(char) {
		self.error(self.spanFrom(start), fmt.Sprintf("Invalid unicode character: U+%s", digits))
		return utf8.RuneError, true
	}

	return char, true
}

//
// Numbers
//

func (self *Lexer) makeNumber() Token {
	start := self.offset()

	if *self.currentChar == '-' {
		self.advance()
	}

	self.digits()

	// fractional part
	if self.currentChar != nil && *self.currentChar == '.' && self.nextChar != nil && IsDigit(*self.nextChar) {
		self.advance()
		self.digits()
	}

	// exponent
	if self.currentChar != nil && (*self.currentChar == 'e' || *self.currentChar == 'E') && self.exponentFollows() {
		self.advance()
		if *self.currentChar == '+' || *self.currentChar == '-' {
			self.advance()
		}
		self.digits()
	}

	span := self.spanFrom(start)
	return newToken(Number, self.program[span.Start:span.End], span)
}

func (self *Lexer) digits() {
	for self.currentChar != nil && IsDigit(*self.currentChar) {
		self.advance()
	}
}

// exponentFollows reports whether the `e` at the current position starts a valid exponent.
func (self *Lexer) exponentFollows() bool {
	rest := self.program[self.currentIndex+self.currentWidth:]
	if len(rest) == 0 {
		return false
	}
	if rest[0] == '+' || rest[0] == '-' {
		rest = rest[1:]
	}
	return len(rest) > 0 && IsDigit(rune(rest[0]))
}

//
// Operators
//

func (self *Lexer) makeDots() Token {
	start := self.offset()

	// skip both dots
	self.advance()
	self.advance()

	if self.currentChar != nil && *self.currentChar == '=' {
		self.advance()
	}

	span := self.spanFrom(start)
	return newToken(Operator, self.program[span.Start:span.End], span)
}

// makeOperator consumes a maximal run of operator characters.
// The run stops early at a line comment or at a `-` which starts a negative number.
func (self *Lexer) makeOperator() Token {
	start := self.offset()
	self.advance()

	for self.currentChar != nil && IsOperatorChar(*self.currentChar) {
		if *self.currentChar == '/' && self.nextChar != nil && *self.nextChar == '/' {
			break
		}
		if *self.currentChar == '-' && self.nextChar != nil && IsDigit(*self.nextChar) {
			break
		}
		self.advance()
	}

	span := self.spanFrom(start)
	return newToken(Operator, self.program[span.Start:span.End], span)
}

//
// Names
//

func (self *Lexer) makeName() Token {
	start := self.offset()
	self.advance()

	for self.currentChar != nil && (IsDigit(*self.currentChar) || IsLetter(*self.currentChar)) {
		self.advance()
	}

	span := self.spanFrom(start)
	value := self.program[span.Start:span.End]

	var tokenKind TokenKind
	switch value {
	case "true":
		tokenKind = True
	case "false":
		tokenKind = False
	case "null":
		tokenKind = Null
	case "if":
		tokenKind = If
	case "else":
		tokenKind = Else
	case "and", "or", "in":
		tokenKind = Operator
	default:
		tokenKind = Identifier
	}

	return newToken(tokenKind, value, span)
}
