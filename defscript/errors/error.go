package errors

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

type ErrorKind uint8

const (
	SyntaxErrorKind ErrorKind = iota
	TypeErrorKind
	IndexErrorKind
	RangeIndexErrorKind
	ReferenceErrorKind
	ReassignErrorKind
	RecursionErrorKind
)

func (self ErrorKind) String() string {
	switch self {
	case SyntaxErrorKind:
		return "SyntaxError"
	case TypeErrorKind:
		return "TypeError"
	case IndexErrorKind:
		return "IndexError"
	case RangeIndexErrorKind:
		return "RangeIndexError"
	case ReferenceErrorKind:
		return "ReferenceError"
	case ReassignErrorKind:
		return "ReassignError"
	case RecursionErrorKind:
		return "RecursionError"
	default:
		panic("A new error kind was introduced without updating this code")
	}
}

// Error is implemented by every error which can be produced by a pipeline stage.
// The set of implementations is closed: each kind maps to exactly one type.
type Error interface {
	error
	Kind() ErrorKind
	Span() Span
}

//
// Syntax error
//

type SyntaxError struct {
	Message string
	Range   Span
}

func NewSyntaxError(span Span, message string) *SyntaxError {
	return &SyntaxError{
		Message: message,
		Range:   span,
	}
}

func (self *SyntaxError) Kind() ErrorKind { return SyntaxErrorKind }
func (self *SyntaxError) Span() Span      { return self.Range }
func (self *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %s", self.Kind(), self.Range, self.Message)
}

//
// Index error
//

type IndexError struct {
	Index     int64
	Length    uint
	BaseSpan  Span
	IndexSpan Span
}

func (self *IndexError) Kind() ErrorKind { return IndexErrorKind }
func (self *IndexError) Span() Span      { return self.BaseSpan.Until(self.IndexSpan) }
func (self *IndexError) Error() string {
	return fmt.Sprintf("%s at %s: index %d is out of bounds for length %d", self.Kind(), self.IndexSpan, self.Index, self.Length)
}

// IsOffByOne reports whether the index is exactly one past the last valid index.
func (self *IndexError) IsOffByOne() bool {
	return self.Index >= 0 && uint(self.Index) == self.Length
}

//
// Range index error
//

type RangeIndexError struct {
	Start          int64
	End            int64
	EndIsInclusive bool
	Length         uint
	BaseSpan       Span
	IndexSpan      Span
}

func (self *RangeIndexError) Kind() ErrorKind { return RangeIndexErrorKind }
func (self *RangeIndexError) Span() Span      { return self.BaseSpan.Until(self.IndexSpan) }
func (self *RangeIndexError) Error() string {
	return fmt.Sprintf("%s at %s: range %s is out of bounds for length %d", self.Kind(), self.IndexSpan, self.RangeString(), self.Length)
}

func (self *RangeIndexError) RangeString() string {
	if self.EndIsInclusive {
		return fmt.Sprintf("%d..=%d", self.Start, self.End)
	}
	return fmt.Sprintf("%d..%d", self.Start, self.End)
}

//
// Reference error
//

type ReferenceError struct {
	Name       string
	Range      Span
	Suggestion string
}

// NewReferenceError creates a reference error for `name`.
// If one of the `known` names is sufficiently similar, it is attached as a suggestion.
func NewReferenceError(name string, span Span, known []string) *ReferenceError {
	return &ReferenceError{
		Name:       name,
		Range:      span,
		Suggestion: closestName(name, known),
	}
}

func (self *ReferenceError) Kind() ErrorKind { return ReferenceErrorKind }
func (self *ReferenceError) Span() Span      { return self.Range }
func (self *ReferenceError) Error() string {
	return fmt.Sprintf("%s at %s: `%s` is not defined", self.Kind(), self.Range, self.Name)
}

func closestName(name string, known []string) string {
	// Short names would match almost anything.
	maxDistance := 2
	if len(name) <= 2 {
		maxDistance = 1
	}

	best := ""
	bestDistance := maxDistance + 1

	for _, candidate := range known {
		if candidate == name {
			continue
		}
		distance := levenshtein.ComputeDistance(name, candidate)
		if distance < bestDistance || (distance == bestDistance && candidate < best) {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}

//
// Reassign error
//

type ReassignError struct {
	Name      string
	FirstSpan Span
	Range     Span
}

func (self *ReassignError) Kind() ErrorKind { return ReassignErrorKind }
func (self *ReassignError) Span() Span      { return self.Range }
func (self *ReassignError) Error() string {
	return fmt.Sprintf("%s at %s: `%s` was already assigned at %s", self.Kind(), self.Range, self.Name, self.FirstSpan)
}

//
// Recursion error
//

// RecursionError describes a dependency cycle.
// `Chain[i]` depends on `Chain[i+1]` and the last element depends on the first one.
type RecursionError struct {
	Chain []string
	Spans []Span
}

func (self *RecursionError) Kind() ErrorKind { return RecursionErrorKind }
func (self *RecursionError) Span() Span {
	if len(self.Spans) == 0 {
		return Span{}
	}
	return self.Spans[0]
}
func (self *RecursionError) Error() string {
	return fmt.Sprintf("%s: circular dependency %s", self.Kind(), self.ChainString())
}

func (self *RecursionError) ChainString() string {
	if len(self.Chain) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, self.Chain...), self.Chain[0]), " -> ")
}
