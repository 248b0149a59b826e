package defscript

import (
	"log/slog"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/evaluator"
	"github.com/smarthome-go/defscript/defscript/lexer"
	"github.com/smarthome-go/defscript/defscript/parser"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
	"github.com/smarthome-go/defscript/defscript/resolver"
	"github.com/smarthome-go/defscript/defscript/value"
)

// Result contains everything a program computed.
type Result struct {
	// The value of every assigned name.
	Values map[string]value.SpannedValue
	// Assigned names in the order in which they were evaluated.
	Order []string
	// The results of all statements which are not assignments, in source order.
	Expressions []value.SpannedValue
}

type config struct {
	logger *slog.Logger
}

type Option func(*config)

// WithLogger makes the pipeline log its progress to `logger`.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(options []Option) config {
	c := config{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

func Lex(source string) ([]lexer.Token, []errors.Error) {
	return lexer.Lex(source)
}

func Parse(tokens []lexer.Token) ([]ast.Expression, []errors.Error) {
	return parser.Parse(tokens)
}

// Run executes every stage of the pipeline on `source`.
// Stages are only executed if all previous stages succeeded.
func Run(source string, options ...Option) (Result, []errors.Error) {
	c := newConfig(options)

	tokens, errs := Lex(source)
	c.logger.Debug("Lexed program", "tokens", len(tokens), "errors", len(errs))
	if len(errs) > 0 {
		return emptyResult(), errs
	}

	statements, errs := Parse(tokens)
	c.logger.Debug("Parsed program", "statements", len(statements), "errors", len(errs))
	if len(errs) > 0 {
		return emptyResult(), errs
	}

	return ResolveAndEvaluate(statements, options...)
}

// ResolveAndEvaluate determines the evaluation order of `statements` and evaluates all of them.
// Every statement is evaluated, except for those which depend on a name whose evaluation failed.
func ResolveAndEvaluate(statements []ast.Expression, options ...Option) (Result, []errors.Error) {
	c := newConfig(options)

	resolution, errs := resolver.Resolve(statements)
	c.logger.Debug("Resolved dependencies", "rounds", resolution.Rounds, "order", resolution.Order, "errors", len(errs))
	if len(errs) > 0 {
		return emptyResult(), errs
	}

	run := newEvaluation(statements, c.logger)

	for _, name := range resolution.Order {
		run.assignment(name, resolution.Statements[name])
	}

	for _, statement := range statements {
		if statement.Kind() == ast.AssignExpressionKind {
			continue
		}
		run.expression(statement)
	}

	c.logger.Debug("Evaluated program", "names", len(run.result.Order), "expressions", len(run.result.Expressions), "errors", len(run.errs))

	if len(run.errs) > 0 {
		return run.result, run.errs
	}
	return run.result, nil
}

func emptyResult() Result {
	return Result{
		Values:      make(map[string]value.SpannedValue),
		Order:       make([]string, 0),
		Expressions: make([]value.SpannedValue, 0),
	}
}

//
// Evaluation state
//

type evaluation struct {
	statements []ast.Expression
	logger     *slog.Logger
	env        evaluator.Environment
	// Names whose evaluation failed or was skipped.
	failed map[string]struct{}
	// Assignments with multiple targets are only evaluated once.
	evaluated map[int]value.SpannedValue
	result    Result
	errs      []errors.Error
}

func newEvaluation(statements []ast.Expression, logger *slog.Logger) *evaluation {
	return &evaluation{
		statements: statements,
		logger:     logger,
		env:        make(evaluator.Environment),
		failed:     make(map[string]struct{}),
		evaluated:  make(map[int]value.SpannedValue),
		result:     emptyResult(),
		errs:       make([]errors.Error, 0),
	}
}

func (self *evaluation) assignment(name string, statementIdx int) {
	statement := self.statements[statementIdx].(ast.AssignExpression)

	result, found := self.evaluated[statementIdx]
	if !found {
		if self.dependsOnFailure(statement) {
			self.logger.Debug("Skipped assignment with failed dependency", "name", name)
			result = value.NewSpannedValue(value.NewValueError(), statement.Range)
		} else {
			var errs []errors.Error
			// The environment is only read during evaluation
			result, errs = evaluator.Evaluate(statement, self.env)
			self.errs = append(self.errs, errs...)
		}
		self.evaluated[statementIdx] = result
	}

	if result.IsError() {
		self.failed[name] = struct{}{}
		return
	}

	assigned := value.NewSpannedValue(result.Value.(value.ValueAssign).Inner, statement.Value.Span())
	self.env[name] = assigned
	self.result.Values[name] = assigned
	self.result.Order = append(self.result.Order, name)

	self.logger.Debug("Evaluated assignment", "name", name, "value", assigned.Value.Display())
}

func (self *evaluation) expression(statement ast.Expression) {
	if self.dependsOnFailure(statement) {
		self.result.Expressions = append(self.result.Expressions, value.NewSpannedValue(value.NewValueError(), statement.Span()))
		return
	}

	result, errs := evaluator.Evaluate(statement, self.env)
	self.errs = append(self.errs, errs...)
	self.result.Expressions = append(self.result.Expressions, result)
}

func (self *evaluation) dependsOnFailure(statement ast.Expression) bool {
	for _, reference := range resolver.References(statement) {
		if _, found := self.failed[reference.Ident()]; found {
			return true
		}
	}
	return false
}
