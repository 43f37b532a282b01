package lsp

import (
	"context"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/cppquickfix-lsp/pkg/model"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
	"github.com/lavigneer/cppquickfix-lsp/pkg/util"
)

const diagnosticSource = "cppquickfix"

// onParsed runs on the parse goroutine and reports the syntax errors of each
// completed parse.
func (h *Handler) onParsed(fileName string, info model.SemanticInfo) {
	h.publish(context.Background(), protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(fileName),
		Diagnostics: syntaxDiagnostics(info),
	})
}

func syntaxDiagnostics(info model.SemanticInfo) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if info.Doc == nil || len(info.Doc.SyntaxErrors()) == 0 {
		return diagnostics
	}
	text := textedit.NewDocument(string(info.Doc.TranslationUnit().Source()))
	for _, e := range info.Doc.SyntaxErrors() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    util.RangeForOffsets(text, e.Offset, e.Offset+e.Length),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  e.Message,
		})
	}
	return diagnostics
}
