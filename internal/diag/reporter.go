package diag

import "gfmlint/internal/source"

// Reporter receives findings from rules.
type Reporter interface {
	Report(level Level, ruleID string, primary source.Span, msg string, fixes []Fix)
}

// ReportBuilder accumulates fix suggestions before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	level    Level
	ruleID   string
	primary  source.Span
	msg      string
	fixes    []Fix
	emitted  bool
}

// NewReportBuilder constructs a builder bound to r.
func NewReportBuilder(r Reporter, level Level, ruleID string, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		level:    level,
		ruleID:   ruleID,
		primary:  primary,
		msg:      msg,
	}
}

// WithFix appends a fix made of the given edits.
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.fixes = append(b.fixes, Fix{Title: title, Edits: edits})
	return b
}

// Emit sends the diagnostic exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.level, b.ruleID, b.primary, b.msg, b.fixes)
	}
	b.emitted = true
}

// BagReporter resolves spans against File and appends to Bag.
// Findings reported at LevelOff are discarded.
type BagReporter struct {
	Bag  *Bag
	File *source.File
}

func (r BagReporter) Report(level Level, ruleID string, primary source.Span, msg string, fixes []Fix) {
	if r.Bag == nil || level == LevelOff {
		return
	}
	d := Diagnostic{
		Reason: msg,
		RuleID: ruleID,
		Fatal:  level == LevelError,
		Note:   level == LevelNote,
		Span:   primary,
		Fixes:  fixes,
	}
	if r.File != nil && primary.Start != Unpositioned {
		pos := r.File.Position(primary.Start)
		d.Line, d.Column = int(pos.Line), int(pos.Col)
	}
	r.Bag.Add(d)
}
