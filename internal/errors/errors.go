// Package errors renders compiler diagnostics in a consistent,
// colorized, caret-pointing style, the way kanso's internal/errors did for
// its richer diagnostics. Semantic-analysis failures and the elaborator's
// FatalError carry a stable rule Code and render through Format/FormatAll;
// lexical/parse failures (internal/parser.ParseError) have no such code and
// render through FormatRaw/FormatAllRaw instead, with the same caret
// treatment.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"c0c/internal/ast"
)

// Code identifies which semantic rule was violated. These are purely for
// human-readable diagnostics; they carry no meaning to the compiler beyond
// that.
type Code string

const (
	DuplicateFunction  Code = "E001"
	MissingMain        Code = "E002"
	BuiltinOverride    Code = "E003"
	MissingReturn      Code = "E004"
	UndeclaredVariable Code = "E005"
	UnassignedUse      Code = "E006"
	DuplicateDecl      Code = "E007"
	TypeMismatch       Code = "E008"
	BadCondition       Code = "E009"
	BadCallArity       Code = "E010"
	BadCallArgType     Code = "E011"
	LoopControlOutside Code = "E012"
	LiteralTooLarge    Code = "E013"
	ForStepDeclares    Code = "E014"
)

// CompilerError is one semantic diagnostic: a function name (empty for
// program-level checks like "missing main"), the rule code, a message,
// and the source position that triggered it.
type CompilerError struct {
	Function string
	Code     Code
	Message  string
	Pos      ast.Position
}

func (e CompilerError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%d:%d: [%s] in %s: %s", e.Pos.Line, e.Pos.Column, e.Code, e.Function, e.Message)
	}
	return fmt.Sprintf("%d:%d: [%s] %s", e.Pos.Line, e.Pos.Column, e.Code, e.Message)
}

// Reporter formats diagnostics against a specific source file, the way
// kanso's ErrorReporter carries the filename and split source lines so it
// can render a caret under the offending column.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders one diagnostic as a single colorized, multi-line message:
// a header naming the code/function/message, then the offending source
// line with a caret under the column.
func (r *Reporter) Format(e CompilerError) string {
	header := fmt.Sprintf("error[%s]: %s", e.Code, e.Message)
	if e.Function != "" {
		header = fmt.Sprintf("error[%s]: in %s: %s", e.Code, e.Function, e.Message)
	}
	return r.render(header, e.Pos)
}

// FormatAll renders every diagnostic in order, separated by a blank line.
func (r *Reporter) FormatAll(errs []CompilerError) string {
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Format(e))
	}
	return b.String()
}

// RawDiagnostic is a position/message pair for a failure that carries no
// stable rule Code: a lexical/parse error, or an elaborator-internal
// invariant violation that should never occur in a well-formed tree.
type RawDiagnostic struct {
	Message string
	Pos     ast.Position
}

// FormatRaw renders a RawDiagnostic with the same caret-pointing style as
// Format, but with a plain "error: message" header since there is no rule
// code to display.
func (r *Reporter) FormatRaw(d RawDiagnostic) string {
	return r.render(fmt.Sprintf("error: %s", d.Message), d.Pos)
}

// FormatAllRaw renders a run of RawDiagnostics, separated by a blank line,
// matching FormatAll's layout.
func (r *Reporter) FormatAllRaw(diags []RawDiagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.FormatRaw(d))
	}
	return b.String()
}

// render is the shared caret-pointing body both Format and FormatRaw use:
// the colorized header, a "--> file:line:col" locator, the offending
// source line, and a caret under the column.
func (r *Reporter) render(header string, pos ast.Position) string {
	var b strings.Builder

	b.WriteString(color.RedString(header))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", r.filename, pos.Line, pos.Column))

	if pos.Line > 0 && pos.Line <= len(r.lines) {
		line := r.lines[pos.Line-1]
		b.WriteString(fmt.Sprintf("   | %s\n", line))
		caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"
		b.WriteString(fmt.Sprintf("   | %s\n", color.HiRedString(caret)))
	}

	return b.String()
}
