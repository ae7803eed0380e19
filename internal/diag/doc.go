// Package diag defines the raw diagnostic record produced by the Markdown
// processor and the small utilities rules use to emit them.
//
// # Data model
//
// Diagnostic is what a lint rule reports: a 1-based line and column (0 when
// unknown), the reason text, the rule identifier and two flags:
//
//   - Fatal – set when the rule runs at the error level.
//   - Note – set when the rule runs at the note level.
//
// The byte Span and the optional Fixes are carried for the fix engine and
// for editors; the classifier ignores them.
//
// # Emitting diagnostics
//
// Rules never construct Diagnostics directly. They call a Reporter (usually
// through NewReportBuilder) with the rule Level configured for them; the
// BagReporter resolves positions against the source file and appends to a
// Bag. A Bag preserves emission order: nothing in this package sorts.
//
// Package diag performs no formatting or IO. Classification lives in
// internal/validate, rendering in internal/diagfmt and edit application in
// internal/fix.
package diag
