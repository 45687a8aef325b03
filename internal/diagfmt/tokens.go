package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bobbin/internal/source"
	"bobbin/internal/token"
)

// TokenOutput is one token in `bobbin tokenize --format json`.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
	Line uint32      `json:"line"`
	Col  uint32      `json:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, f *source.File) error {
	lines := f.Lines()
	for i, tok := range tokens {
		start := lines.LineCol(tok.Span.Start)
		end := lines.LineCol(tok.Span.End)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line+1, start.Column+1, end.Line+1, end.Column+1)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, f *source.File) error {
	lines := f.Lines()
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := lines.LineCol(tok.Span.Start)
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
			Line: pos.Line + 1,
			Col:  pos.Column + 1,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
