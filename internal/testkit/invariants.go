// Package testkit holds checks shared by the processor tests and the fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gfmlint/internal/diag"
	"gfmlint/internal/source"
)

// CheckDiagnosticInvariants verifies what every diagnostic of sf must hold:
// 1) a positioned span lies inside the content and starts at Line:Column
// 2) an unpositioned span keeps Line and Column at 0
// 3) fix edits stay inside the content and do not overlap within a fix
func CheckDiagnosticInvariants(sf *source.File, diags []diag.Diagnostic) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for i, d := range diags {
		if d.Span.Start == diag.Unpositioned {
			if d.Line != 0 || d.Column != 0 {
				return fmt.Errorf("diag %d (%s): unpositioned but reported at %d:%d", i, d.RuleID, d.Line, d.Column)
			}
		} else {
			if d.Span.End < d.Span.Start {
				return fmt.Errorf("diag %d (%s): inverted span %v", i, d.RuleID, d.Span)
			}
			if d.Span.End > lenContent {
				return fmt.Errorf("diag %d (%s): span end beyond content: %d > %d", i, d.RuleID, d.Span.End, lenContent)
			}
			pos := sf.Position(d.Span.Start)
			if d.Line != int(pos.Line) || d.Column != int(pos.Col) {
				return fmt.Errorf("diag %d (%s): reported at %d:%d, span starts at %d:%d", i, d.RuleID, d.Line, d.Column, pos.Line, pos.Col)
			}
		}
		if d.Reason == "" {
			return fmt.Errorf("diag %d (%s): empty reason", i, d.RuleID)
		}
		for _, fx := range d.Fixes {
			if err := checkEdits(fx, lenContent); err != nil {
				return fmt.Errorf("diag %d (%s) fix %q: %w", i, d.RuleID, fx.Title, err)
			}
		}
	}
	return nil
}

func checkEdits(fx diag.Fix, lenContent uint32) error {
	for j, e := range fx.Edits {
		if e.Span.End < e.Span.Start || e.Span.End > lenContent {
			return fmt.Errorf("edit %d span %v outside content", j, e.Span)
		}
		for k := 0; k < j; k++ {
			prev := fx.Edits[k].Span
			if e.Span.Start < prev.End && prev.Start < e.Span.End {
				return fmt.Errorf("edits %d and %d overlap", k, j)
			}
		}
	}
	return nil
}
