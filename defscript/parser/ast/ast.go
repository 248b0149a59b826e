package ast

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
)

//
// Spanned ident
//

func NewSpannedIdent(ident string, span errors.Span) SpannedIdent {
	return SpannedIdent{
		ident: ident,
		span:  span,
	}
}

type SpannedIdent struct {
	ident string
	span  errors.Span
}

func (self SpannedIdent) Ident() string     { return self.ident }
func (self SpannedIdent) Span() errors.Span { return self.span }
func (self SpannedIdent) String() string    { return self.ident }

//
// Block
//

// Block holds one or more expressions, its value is the value of the last one.
type Block struct {
	Expressions []Expression
	Range       errors.Span
}

func (self Block) Last() Expression {
	return self.Expressions[len(self.Expressions)-1]
}

func (self Block) String() string {
	contents := make([]string, 0)
	for idx, expr := range self.Expressions {
		line := expr.String()
		// assignments always need their `;`
		if idx < len(self.Expressions)-1 || expr.Kind() == AssignExpressionKind {
			line += ";"
		}
		contents = append(contents, strings.ReplaceAll(line, "\n", "\n    "))
	}

	if len(contents) == 1 && !strings.Contains(contents[0], "\n") {
		return fmt.Sprintf("{ %s }", contents[0])
	}

	return fmt.Sprintf("{\n    %s\n}", strings.Join(contents, "\n    "))
}

//
// Program
//

// Format reconstructs the source of a whole program.
// Each statement is printed on its own line and terminated by a `;`.
func Format(statements []Expression) string {
	output := make([]string, 0)
	for _, stmt := range statements {
		output = append(output, stmt.String()+";")
	}
	return strings.Join(output, "\n")
}
