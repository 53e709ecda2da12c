package langserver

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"c0c/internal/elaborate"
	cerrors "c0c/internal/errors"
	"c0c/internal/parser"
)

// convertParseErrors turns lexical/parse failures into diagnostics. Both
// map to the same severity here; the driver's exit-code split between
// them (spec.md §7) has no meaning inside an editor.
func convertParseErrors(errs []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    pointRange(e.Pos.Line, e.Pos.Column),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("c0c-parser"),
			Message:  e.Message,
		})
	}
	return diagnostics
}

// convertElaborateError turns the single elaboration-time FatalError
// (spec.md §7's "for-loop step may not be a declaration") into a
// diagnostic.
func convertElaborateError(err error) []protocol.Diagnostic {
	fatal, ok := err.(*elaborate.FatalError)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    pointRange(1, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("c0c-elaborate"),
			Message:  err.Error(),
		}}
	}
	return []protocol.Diagnostic{{
		Range:    pointRange(fatal.Pos.Line, fatal.Pos.Column),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("c0c-elaborate"),
		Code:     &protocol.IntegerOrString{Value: string(fatal.Code)},
		Message:  fatal.Message,
	}}
}

// convertCompilerErrors turns semantic-analysis diagnostics into LSP
// diagnostics, carrying the rule code through as the diagnostic code so
// an editor can surface it alongside the message.
func convertCompilerErrors(errs []cerrors.CompilerError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    pointRange(e.Pos.Line, e.Pos.Column),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("c0c-semantic"),
			Code:     &protocol.IntegerOrString{Value: string(e.Code)},
			Message:  e.Message,
		})
	}
	return diagnostics
}

// pointRange builds a one-column-wide range at a 1-based line/column,
// converted to the 0-based positions LSP ranges use.
func pointRange(line, column int) protocol.Range {
	l := uint32(0)
	if line > 0 {
		l = uint32(line - 1)
	}
	c := uint32(0)
	if column > 0 {
		c = uint32(column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: l, Character: c},
		End:   protocol.Position{Line: l, Character: c + 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
