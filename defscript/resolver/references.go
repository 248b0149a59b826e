package resolver

import (
	"fmt"
	"maps"

	"github.com/smarthome-go/defscript/defscript/parser/ast"
)

// References returns every identifier which is referenced by `expr`, in source order.
// Both branches of a conditional are included.
// Uses of names which were assigned earlier in the same block are local and not included.
func References(expr ast.Expression) []ast.SpannedIdent {
	references := make([]ast.SpannedIdent, 0)
	collectReferences(expr, nil, &references)
	return references
}

func collectReferences(expr ast.Expression, locals map[string]struct{}, references *[]ast.SpannedIdent) {
	switch expr.Kind() {
	case ast.NumberLiteralExpressionKind, ast.StringLiteralExpressionKind,
		ast.BoolLiteralExpressionKind, ast.NullLiteralExpressionKind,
		ast.ErrorExpressionKind:
		// literals do not reference anything
	case ast.IdentExpressionKind:
		ident := expr.(ast.IdentExpression).Ident
		if _, isLocal := locals[ident.Ident()]; !isLocal {
			*references = append(*references, ident)
		}
	case ast.ArrayLiteralExpressionKind:
		for _, element := range expr.(ast.ArrayLiteralExpression).Values {
			collectReferences(element, locals, references)
		}
	case ast.PrefixExpressionKind:
		collectReferences(expr.(ast.PrefixExpression).Base, locals, references)
	case ast.InfixExpressionKind:
		infix := expr.(ast.InfixExpression)
		collectReferences(infix.Lhs, locals, references)
		collectReferences(infix.Rhs, locals, references)
	case ast.IndexExpressionKind:
		index := expr.(ast.IndexExpression)
		collectReferences(index.Base, locals, references)
		collectReferences(index.Index, locals, references)
	case ast.IfExpressionKind:
		ifExpr := expr.(ast.IfExpression)
		collectReferences(ifExpr.Condition, locals, references)
		blockReferences(ifExpr.ThenBlock, locals, references)
		blockReferences(ifExpr.ElseBlock, locals, references)
	case ast.AssignExpressionKind:
		collectReferences(expr.(ast.AssignExpression).Value, locals, references)
	default:
		panic(fmt.Sprintf("A new expression kind was introduced without updating this code: %s", expr.Kind()))
	}
}

func blockReferences(block ast.Block, outer map[string]struct{}, references *[]ast.SpannedIdent) {
	locals := maps.Clone(outer)
	if locals == nil {
		locals = make(map[string]struct{})
	}

	for _, expr := range block.Expressions {
		collectReferences(expr, locals, references)

		if assign, isAssign := expr.(ast.AssignExpression); isAssign {
			for _, target := range assign.TargetNames() {
				locals[target] = struct{}{}
			}
		}
	}
}

// uniqueNames returns the referenced names without duplicates, keeping the first occurrence.
func uniqueNames(references []ast.SpannedIdent) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, reference := range references {
		if _, found := seen[reference.Ident()]; found {
			continue
		}
		seen[reference.Ident()] = struct{}{}
		names = append(names, reference.Ident())
	}

	return names
}
