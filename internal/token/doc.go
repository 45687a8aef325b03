// Package token defines lexical token kinds for Bobbin scripts.
// Invariants:
//   - Token.Span always points at the source bytes the token came from, even
//     when Token.Text holds a decoded value (Text, String) or a message (Error).
//   - Indent/Dedent are synthetic and carry empty spans at the first
//     non-blank column of the line that changed the depth.
//   - Keywords are lowercase and case-sensitive.
package token
