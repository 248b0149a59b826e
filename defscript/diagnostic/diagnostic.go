package diagnostic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/smarthome-go/defscript/defscript/errors"
)

type DiagnosticLevel uint8

const (
	DiagnosticLevelHint DiagnosticLevel = iota
	DiagnosticLevelInfo
	DiagnosticLevelWarning
	DiagnosticLevelError
)

func (self DiagnosticLevel) String() string {
	switch self {
	case DiagnosticLevelHint:
		return "Hint"
	case DiagnosticLevelInfo:
		return "Info"
	case DiagnosticLevelWarning:
		return "Warning"
	case DiagnosticLevelError:
		return "Error"
	default:
		panic("A new diagnostic level was added without updating this code")
	}
}

func (self DiagnosticLevel) color() uint8 {
	switch self {
	case DiagnosticLevelHint:
		return 5 // magenta
	case DiagnosticLevelInfo:
		return 4 // blue
	case DiagnosticLevelWarning:
		return 3 // yellow
	case DiagnosticLevelError:
		return 1 // red
	default:
		panic("A new diagnostic level was added without updating this code")
	}
}

//
// Diagnostic
//

// Related points at another location which helps to understand the diagnostic.
type Related struct {
	Message string      `json:"message"`
	Span    errors.Span `json:"span"`
}

type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Notes   []string        `json:"notes"`
	Related []Related       `json:"related"`
	Span    errors.Span     `json:"span"`
}

// Display renders the diagnostic including the affected lines of `program`.
// If `color` is false, no ANSI escape sequences are emitted.
func (self Diagnostic) Display(filename string, program string, color bool) string {
	paint := painter{enabled: color}
	levelColor := self.Level.color() + 30

	markerMul := "~"
	if self.Level == DiagnosticLevelError {
		markerMul = "^"
	}

	lines := strings.Split(program, "\n")
	start := errors.LocationOf(program, self.Span.Start)
	end := errors.LocationOf(program, self.Span.End)

	// a span which points behind the program is clamped to its last line
	if int(start.Line) > len(lines) {
		start.Line = uint(len(lines))
	}
	if int(end.Line) > len(lines) {
		end.Line = uint(len(lines))
	}

	var output strings.Builder

	fmt.Fprintf(
		&output,
		"%s at %s:%d:%d\n",
		paint.bold(levelColor, fmt.Sprintf("%s[%s]", self.Level, self.Title)),
		filename,
		start.Line,
		start.Column,
	)

	if start.Line > 1 {
		output.WriteString(paint.sourceLine(start.Line-1, lines[start.Line-2]))
	}
	output.WriteString(paint.sourceLine(start.Line, lines[start.Line-1]))

	markers := ""
	if start.Line == end.Line {
		markers = strings.Repeat(markerMul, max(int(end.Column)-int(start.Column), 1))
	} else {
		// multiline span
		remaining := utf8.RuneCountInString(lines[start.Line-1]) - int(start.Column) + 1

		s := "s"
		if end.Line-start.Line == 1 {
			s = ""
		}

		markers = fmt.Sprintf(
			"%s ... %s",
			strings.Repeat(markerMul, max(remaining, 1)),
			paint.bold(32, fmt.Sprintf("+ %d more line%s", end.Line-start.Line, s)),
		)
	}
	output.WriteString(strings.Repeat(" ", int(start.Column)+6))
	output.WriteString(paint.bold(levelColor, markers))
	output.WriteRune('\n')

	if int(start.Line) < len(lines) {
		output.WriteString(paint.sourceLine(start.Line+1, lines[start.Line]))
	}

	output.WriteRune('\n')
	output.WriteString(paint.bold(levelColor, self.Message))
	output.WriteRune('\n')

	for _, related := range self.Related {
		location := errors.LocationOf(program, related.Span.Start)
		fmt.Fprintf(
			&output,
			"%s %s at %s:%d:%d\n",
			paint.bold(36, " - note:"),
			related.Message,
			filename,
			location.Line,
			location.Column,
		)
	}

	for _, note := range self.Notes {
		fmt.Fprintf(&output, "%s %s\n", paint.bold(36, " - note:"), note)
	}

	return output.String()
}

//
// ANSI colors
//

type painter struct {
	enabled bool
}

func (self painter) bold(color uint8, text string) string {
	if !self.enabled {
		return text
	}
	return fmt.Sprintf("\x1b[1;%dm%s\x1b[0m", color, text)
}

func (self painter) sourceLine(number uint, line string) string {
	prefix := fmt.Sprintf(" %-3d | ", number)
	if self.enabled {
		prefix = fmt.Sprintf("\x1b[90m%s\x1b[0m", prefix)
	}
	return prefix + line + "\n"
}
