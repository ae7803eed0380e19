package diag

import (
	"gfmlint/internal/source"
)

// Unpositioned marks a span that refers to the whole file rather than a
// location inside it; diagnostics reported with it keep line and column 0.
const Unpositioned = ^uint32(0)

// FileSpan returns the unpositioned span of file id.
func FileSpan(id source.FileID) source.Span {
	return source.Span{File: id, Start: Unpositioned, End: Unpositioned}
}

// FixEdit replaces the bytes covered by Span with NewText.
// OldText, when set, must match the current bytes for the edit to apply.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is a single positioned finding of the Markdown processor.
type Diagnostic struct {
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
	Reason string
	RuleID string // empty when the finding does not come from a rule
	Fatal  bool
	Note   bool

	Span  source.Span
	Fixes []Fix
}

// Fixable reports whether at least one fix carries edits.
func (d *Diagnostic) Fixable() bool {
	for i := range d.Fixes {
		if len(d.Fixes[i].Edits) > 0 {
			return true
		}
	}
	return false
}
