package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bobbin/internal/diag"
)

func (d *document) protocolDiagnostics(utf16 bool) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(d.diagnostics))
	for i := range d.diagnostics {
		out = append(out, d.toProtocol(&d.diagnostics[i], utf16))
	}
	return out
}

// toProtocol maps one diagnostic: the primary label gives the range,
// secondary labels become related information in the same document, and
// notes and suggestions are appended to the message.
func (d *document) toProtocol(dg *diag.Diagnostic, utf16 bool) protocol.Diagnostic {
	source := diagSource
	severity := lspSeverity(dg.Severity)
	out := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  message(dg),
	}
	if l, ok := dg.PrimaryLabel(); ok {
		out.Range = d.toRange(l.Span, utf16)
	}
	for _, l := range dg.Secondaries() {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: d.uri, Range: d.toRange(l.Span, utf16)},
			Message:  l.Message,
		})
	}
	return out
}

func message(dg *diag.Diagnostic) string {
	if len(dg.Notes) == 0 && len(dg.Suggestions) == 0 {
		return dg.Message
	}
	var sb strings.Builder
	sb.WriteString(dg.Message)
	for _, n := range dg.Notes {
		sb.WriteString("\nnote: ")
		sb.WriteString(n)
	}
	for _, s := range dg.Suggestions {
		sb.WriteString("\nhelp: ")
		sb.WriteString(s.Message)
	}
	return sb.String()
}

func lspSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SevNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}
