package resolver

import (
	"slices"
	"sort"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

// Resolution describes in which order the assignments of a program have to be evaluated.
type Resolution struct {
	// Every assigned name, each one appears after all names it depends on.
	Order []string
	// Maps each assigned name to the index of its defining statement.
	Statements map[string]int
	// How many rounds were required to linearize the dependency graph.
	Rounds int
}

type definition struct {
	name       string
	span       errors.Span
	statement  int
	references []ast.SpannedIdent
	// Names referenced by this definition, without duplicates.
	dependencies []string
}

type dependencyGraph struct {
	definitions map[string]*definition
	// Names in statement order, targets of one statement in source order.
	names []string
}

// Resolve computes an evaluation order for all assignments in `statements`.
// Statements which are not assignments are ignored.
func Resolve(statements []ast.Expression) (Resolution, []errors.Error) {
	graph, errs := buildGraph(statements)
	if len(errs) > 0 {
		return Resolution{}, errs
	}

	resolution := Resolution{
		Order:      make([]string, 0, len(graph.names)),
		Statements: make(map[string]int),
		Rounds:     0,
	}
	for _, name := range graph.names {
		resolution.Statements[name] = graph.definitions[name].statement
	}

	resolved := make(map[string]struct{})
	unresolved := slices.Clone(graph.names)

	for len(unresolved) > 0 {
		extracted := make([]string, 0)
		remaining := make([]string, 0)

		for _, name := range unresolved {
			if graph.definitions[name].isSatisfiedBy(resolved) {
				extracted = append(extracted, name)
			} else {
				remaining = append(remaining, name)
			}
		}

		if len(extracted) == 0 {
			return Resolution{}, graph.classify(remaining)
		}

		// Only mark the names as resolved after the round so that the result does not depend on
		// the position of a definition inside the round.
		for _, name := range extracted {
			resolved[name] = struct{}{}
		}

		resolution.Order = append(resolution.Order, extracted...)
		resolution.Rounds++
		unresolved = remaining
	}

	return resolution, nil
}

func buildGraph(statements []ast.Expression) (dependencyGraph, []errors.Error) {
	graph := dependencyGraph{
		definitions: make(map[string]*definition),
		names:       make([]string, 0),
	}
	errs := make([]errors.Error, 0)

	for statementIdx, statement := range statements {
		if statement.Kind() != ast.AssignExpressionKind {
			continue
		}

		assignment := statement.(ast.AssignExpression)
		references := References(assignment.Value)

		for _, target := range assignment.Targets {
			if previous, found := graph.definitions[target.Ident()]; found {
				errs = append(errs, &errors.ReassignError{
					Name:      target.Ident(),
					FirstSpan: previous.span,
					Range:     target.Span(),
				})
				continue
			}

			graph.definitions[target.Ident()] = &definition{
				name:         target.Ident(),
				span:         target.Span(),
				statement:    statementIdx,
				references:   references,
				dependencies: uniqueNames(references),
			}
			graph.names = append(graph.names, target.Ident())
		}
	}

	return graph, errs
}

func (self *definition) isSatisfiedBy(resolved map[string]struct{}) bool {
	for _, dependency := range self.dependencies {
		if _, found := resolved[dependency]; !found {
			return false
		}
	}
	return true
}

//
// Classification of unresolvable definitions
//

func (self dependencyGraph) classify(remaining []string) []errors.Error {
	errs := make([]errors.Error, 0)

	for _, name := range remaining {
		reported := make(map[string]struct{})

		for _, reference := range self.definitions[name].references {
			if _, defined := self.definitions[reference.Ident()]; defined {
				continue
			}
			if _, alreadyReported := reported[reference.Ident()]; alreadyReported {
				continue
			}
			reported[reference.Ident()] = struct{}{}

			errs = append(errs, errors.NewReferenceError(reference.Ident(), reference.Span(), self.names))
		}
	}

	for _, cycle := range self.findCycles(remaining) {
		errs = append(errs, cycle)
	}

	return errs
}

// findCycles performs a depth-first search over the unresolved part of the graph.
// Every cycle is only reported once, regardless of the member from which it was discovered.
func (self dependencyGraph) findCycles(remaining []string) []*errors.RecursionError {
	unresolved := make(map[string]struct{})
	for _, name := range remaining {
		unresolved[name] = struct{}{}
	}

	cycles := make([]*errors.RecursionError, 0)
	seenCycles := make(map[string]struct{})
	finished := make(map[string]struct{})

	var visit func(name string, path []string)
	visit = func(name string, path []string) {
		if start := slices.Index(path, name); start != -1 {
			chain := slices.Clone(path[start:])

			key := cycleKey(chain)
			if _, found := seenCycles[key]; found {
				return
			}
			seenCycles[key] = struct{}{}

			cycles = append(cycles, &errors.RecursionError{
				Chain: chain,
				Spans: self.cycleSpans(chain),
			})
			return
		}

		if _, found := finished[name]; found {
			return
		}

		path = append(path, name)
		for _, dependency := range self.definitions[name].dependencies {
			if _, found := unresolved[dependency]; !found {
				continue
			}
			visit(dependency, path)
		}

		finished[name] = struct{}{}
	}

	for _, name := range remaining {
		visit(name, make([]string, 0))
	}

	return cycles
}

// cycleSpans returns the span of the reference from each chain member to its successor.
func (self dependencyGraph) cycleSpans(chain []string) []errors.Span {
	spans := make([]errors.Span, 0, len(chain))

	for idx, name := range chain {
		next := chain[(idx+1)%len(chain)]

		for _, reference := range self.definitions[name].references {
			if reference.Ident() == next {
				spans = append(spans, reference.Span())
				break
			}
		}
	}

	return spans
}

// cycleKey identifies a cycle independently of its starting point.
func cycleKey(chain []string) string {
	members := slices.Clone(chain)
	sort.Strings(members)
	return strings.Join(members, "\x00")
}
