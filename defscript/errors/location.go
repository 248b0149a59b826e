package errors

import "fmt"

// Span is a half-open byte range `[Start, End)` into the program source.
type Span struct {
	Start uint `json:"start"`
	End   uint `json:"end"`
}

func NewSpan(start uint, end uint) Span {
	return Span{Start: start, End: end}
}

// Until returns a span covering `self` up to the end of `other`.
func (self Span) Until(other Span) Span {
	return Span{Start: self.Start, End: other.End}
}

func (self Span) Len() uint {
	if self.End < self.Start {
		return 0
	}
	return self.End - self.Start
}

func (self Span) String() string {
	return fmt.Sprintf("%d..%d", self.Start, self.End)
}

//
// Location
//

// Location is a human-readable position which is only derived for diagnostics.
type Location struct {
	Line   uint
	Column uint
	Index  uint
}

func (self *Location) Advance(newline bool) {
	self.Index += 1
	if newline {
		self.Column = 1
		self.Line += 1
	} else {
		self.Column += 1
	}
}

// LocationOf converts a byte offset of `program` into a line / column pair.
// Columns count runes, lines and columns start at 1.
func LocationOf(program string, offset uint) Location {
	location := Location{Line: 1, Column: 1}

	for idx, char := range program {
		if uint(idx) >= offset {
			break
		}
		location.Advance(char == '\n')
	}

	location.Index = offset
	return location
}
