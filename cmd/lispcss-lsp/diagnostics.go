package main

import (
	goerrors "errors"
	"strings"
	"unicode/utf16"

	lerrors "github.com/pipe01/lispcss/errors"
	"github.com/pipe01/lispcss/internal/lexer"
	"github.com/pipe01/lispcss/internal/workspace"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// diagnose parses contents and reports lex and parse errors as errors, and groups
// that were left out of the stylesheet as warnings.
func diagnose(ws *workspace.Workspace, fileName string, contents string) []protocol.Diagnostic {
	diag := []protocol.Diagnostic{}

	f, err := ws.LoadWithContents(fileName, []byte(contents))
	if err != nil {
		var poserr lerrors.SituatedErr

		if goerrors.As(err, &poserr) {
			diag = append(diag, protocol.Diagnostic{
				Range:    pointRange(contents, poserr.At()),
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  poserr.Unwrap().Error(),
			})
		} else {
			diag = append(diag, protocol.Diagnostic{
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  err.Error(),
			})
		}

		return diag
	}

	for _, s := range f.Skipped {
		at := s.Position()
		msg := s.Err.Error()

		var poserr lerrors.SituatedErr
		if goerrors.As(s.Err, &poserr) {
			at = poserr.At()
			msg = poserr.Unwrap().Error()
		}

		diag = append(diag, protocol.Diagnostic{
			Range:    pointRange(contents, at),
			Severity: ptr(protocol.DiagnosticSeverityWarning),
			Source:   ptr(lsName),
			Message:  "group is left out of the stylesheet: " + msg,
		})
	}

	return diag
}

func pointRange(contents string, l lexer.Location) protocol.Range {
	p := pos(contents, l)

	return protocol.Range{
		Start: p,
		End:   p,
	}
}

// pos converts l, whose column counts runes, into an LSP position, whose
// character offset counts UTF-16 code units.
func pos(contents string, l lexer.Location) protocol.Position {
	return protocol.Position{
		Line:      uint32(l.Line),
		Character: utf16Column(lineAt(contents, l.Line), l.Column),
	}
}

func lineAt(contents string, line int) string {
	for ; line > 0; line-- {
		nl := strings.IndexByte(contents, '\n')
		if nl < 0 {
			return ""
		}
		contents = contents[nl+1:]
	}

	if nl := strings.IndexByte(contents, '\n'); nl >= 0 {
		contents = contents[:nl]
	}

	return contents
}

func utf16Column(line string, runes int) uint32 {
	var units uint32

	for _, r := range line {
		if runes == 0 {
			break
		}

		units += uint32(len(utf16.Encode([]rune{r})))
		runes--
	}

	// Past the end of the line, such as the end of the document
	return units + uint32(runes)
}

func ptr[T any](v T) *T {
	return &v
}
