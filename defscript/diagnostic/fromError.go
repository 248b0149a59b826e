package diagnostic

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/defscript/defscript/errors"
	"github.com/smarthome-go/defscript/defscript/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FromError converts any error produced by the pipeline into a diagnostic.
func FromError(err errors.Error) Diagnostic {
	diagnostic := Diagnostic{
		Level:   DiagnosticLevelError,
		Title:   err.Kind().String(),
		Notes:   make([]string, 0),
		Related: make([]Related, 0),
		Span:    err.Span(),
	}

	switch err := err.(type) {
	case *errors.SyntaxError:
		diagnostic.Message = err.Message
	case *value.TypeError:
		diagnostic.Message = err.Message()
		if err.Context.Kind == value.RepeatLimitContextKind {
			diagnostic.Notes = append(diagnostic.Notes, "Repeat the string fewer times or use a shorter string")
			break
		}
		diagnostic.Notes = append(diagnostic.Notes, fmt.Sprintf("Expected type: %s", typeNames(err.Expected)))
	case *errors.IndexError:
		diagnostic.Message = fmt.Sprintf("Index %d is out of bounds for a value of length %d", err.Index, err.Length)
		if err.IsOffByOne() && err.Length > 0 {
			diagnostic.Notes = append(diagnostic.Notes, fmt.Sprintf("The last valid index is %d", err.Length-1))
		}
		diagnostic.Notes = append(diagnostic.Notes, validIndicesNote(err.Length))
	case *errors.RangeIndexError:
		diagnostic.Message = fmt.Sprintf("Range %s is out of bounds for a value of length %d", err.RangeString(), err.Length)
		diagnostic.Notes = append(diagnostic.Notes, validIndicesNote(err.Length))
	case *errors.ReferenceError:
		diagnostic.Message = fmt.Sprintf("`%s` is not defined", err.Name)
		if err.Suggestion != "" {
			diagnostic.Notes = append(diagnostic.Notes, fmt.Sprintf("Did you mean `%s`?", err.Suggestion))
		}
	case *errors.ReassignError:
		diagnostic.Message = fmt.Sprintf("`%s` is assigned more than once", err.Name)
		diagnostic.Related = append(diagnostic.Related, Related{
			Message: fmt.Sprintf("`%s` was first assigned here", err.Name),
			Span:    err.FirstSpan,
		})
	case *errors.RecursionError:
		diagnostic.Message = fmt.Sprintf("Circular dependency: %s", err.ChainString())
		for idx := 1; idx < len(err.Spans) && idx < len(err.Chain); idx++ {
			diagnostic.Related = append(diagnostic.Related, Related{
				Message: fmt.Sprintf("`%s` depends on `%s`", err.Chain[idx], err.Chain[(idx+1)%len(err.Chain)]),
				Span:    err.Spans[idx],
			})
		}
	default:
		panic(fmt.Sprintf("A new error kind was introduced without updating this code: %s", err.Kind()))
	}

	return diagnostic
}

func typeNames(kinds []value.ValueKind) string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, titleCaser.String(kind.String()))
	}
	return strings.Join(names, " or ")
}

func validIndicesNote(length uint) string {
	if length == 0 {
		return "The value is empty and cannot be indexed"
	}
	return fmt.Sprintf("Valid indices range from %d to %d", -int64(length), length-1)
}
