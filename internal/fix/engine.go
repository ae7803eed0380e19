package fix

import (
	"errors"
	"fmt"
	"sort"

	"gfmlint/internal/diag"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeAll ApplyMode = iota
	ApplyModeOnce
	ApplyModeRule
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode   ApplyMode
	RuleID string // for ApplyModeRule
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID        string
	Title     string
	RuleID    string
	Message   string
	Line      int
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// ApplyResult aggregates applied and skipped fixes.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
}

// Edits counts the edits of all applied fixes.
func (r *ApplyResult) Edits() int {
	n := 0
	for _, a := range r.Applied {
		n += a.EditCount
	}
	return n
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply selects fixes from diagnostics reported against content and returns
// the rewritten content. Fixes whose edits overlap an already accepted fix
// are skipped; a fix is applied whole or not at all.
func Apply(content []byte, diagnostics []diag.Diagnostic, opts ApplyOptions) ([]byte, *ApplyResult, error) {
	result := &ApplyResult{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return content, result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected := selectCandidates(candidates, opts)
	if len(selected) == 0 {
		return content, result, ErrNoFixes
	}

	var accepted []diag.FixEdit
	for _, cand := range selected {
		if reason := checkEdits(content, accepted, cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}
		accepted = append(accepted, cand.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			ID:        cand.id,
			Title:     cand.fix.Title,
			RuleID:    cand.diag.RuleID,
			Message:   cand.diag.Reason,
			Line:      cand.diag.Line,
			EditCount: len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return content, result, ErrNoFixes
	}
	return splice(content, accepted), result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Each candidate
// gets an id "<rule>-<start>-<index>" and an insertion order for stable
// sorting.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d", d.RuleID, d.Span.Start, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if _, dup := seen[id]; dup {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by span start, span end, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag.Span, candidates[j].diag.Span
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) []candidate {
	switch opts.Mode {
	case ApplyModeOnce:
		return candidates[:1]
	case ApplyModeRule:
		selected := make([]candidate, 0)
		for _, cand := range candidates {
			if cand.diag.RuleID == opts.RuleID {
				selected = append(selected, cand)
			}
		}
		return selected
	default:
		return candidates
	}
}

// checkEdits returns why edits cannot be applied on top of accepted, or "".
func checkEdits(content []byte, accepted, edits []diag.FixEdit) string {
	for i, e := range edits {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return "edit span out of range"
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		for _, prev := range accepted {
			if spansConflict(prev, e) {
				return "conflicts with previously applied edits"
			}
		}
		for _, other := range edits[:i] {
			if spansConflict(other, e) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is within that span (Start <= pos < End).
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// splice applies non-overlapping edits from the end of content backwards so
// earlier offsets stay valid. Insertions at the same offset keep their
// acceptance order.
func splice(content []byte, edits []diag.FixEdit) []byte {
	idx := make([]int, len(edits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := edits[idx[i]], edits[idx[j]]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start > b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End > b.Span.End
		}
		return idx[i] > idx[j]
	})
	out := append([]byte(nil), content...)
	for _, i := range idx {
		e := edits[i]
		suffix := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), suffix...)
	}
	return out
}
