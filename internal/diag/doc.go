// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide a plain value type (Diagnostic, Label, Suggestion) that lexer,
//     parser, resolver, compiler and VM errors all convert into.
//   - Define the two adapter contracts around third-party code: Matcher for
//     "did you mean?" suggestions and Renderer for display.
//
// # Scope
//
// Package diag does no formatting beyond the one-line golden form and no IO.
// Pretty/JSON/SARIF rendering lives in internal/diagfmt; the Jaro-Winkler
// matcher lives in internal/similar.
//
// # Data model
//
//   - Severity – Error, Warning, Note, Help.
//   - Message – short and actionable.
//   - Labels – spans with messages; exactly one Primary label for source
//     errors, none for runtime errors.
//   - Notes – location-free context lines.
//   - Suggestions – replacement text for a span.
//
// # Converting errors
//
// Every pipeline error implements Convertible. Conversion takes a *Context
// holding the known variable names and the Matcher, so an undefined variable
// can carry a suggestion. Convert maps a whole error list with one context.
package diag
