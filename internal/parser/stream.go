package parser

import (
	"iter"

	"bobbin/internal/lexer"
	"bobbin/internal/source"
	"bobbin/internal/token"
)

// stream pulls tokens from the scanner with one token of lookahead. Error
// tokens never reach the grammar: they are recorded and skipped here.
type stream struct {
	next func() (token.Token, bool)
	stop func()
	tok  token.Token
	// lexBad is set when the current line produced a lexical error.
	lexBad  bool
	onError func(*lexer.LexicalError)
}

func newStream(seq iter.Seq[token.Token], onError func(*lexer.LexicalError)) *stream {
	next, stop := iter.Pull(seq)
	s := &stream{next: next, stop: stop, onError: onError}
	s.fill()
	return s
}

func (s *stream) fill() {
	for {
		tok, ok := s.next()
		if !ok {
			// The scanner always ends with EOF; a bare sequence might not.
			s.tok = token.Token{Kind: token.EOF, Span: source.Span{Start: s.tok.Span.End, End: s.tok.Span.End}}
			return
		}
		if tok.Kind == token.Error {
			s.lexBad = true
			s.onError(lexer.FromToken(tok))
			continue
		}
		s.tok = tok
		return
	}
}

func (s *stream) peek() token.Token { return s.tok }

func (s *stream) advance() token.Token {
	tok := s.tok
	if tok.Kind == token.EOF {
		return tok
	}
	if tok.Kind == token.Newline {
		s.lexBad = false
	}
	s.fill()
	return tok
}

func (s *stream) close() { s.stop() }
