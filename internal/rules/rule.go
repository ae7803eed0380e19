// Package rules holds the lint rules of the "markdown-style-guide" preset.
//
// A rule is a plain value: an identifier, a default level, an optional
// numeric option and a Check function that walks a parsed document and
// reports through a Context. Rules never see each other; the processor runs
// them one after another in preset order.
package rules

import (
	"fmt"

	"gfmlint/internal/diag"
	"gfmlint/internal/fix"
	"gfmlint/internal/mdast"
)

// Rule describes one lint rule.
type Rule struct {
	ID      string
	Summary string
	Level   diag.Level // default level inside the preset
	Option  int        // default numeric option, 0 when unused
	Fixable bool
	Check   func(c *Context)
}

// Context is what a rule sees during a run.
type Context struct {
	Doc    *mdast.Document
	Path   string
	Level  diag.Level
	Option int

	ruleID   string
	reporter diag.Reporter
}

// NewContext binds a rule to a document and a reporter.
func NewContext(doc *mdast.Document, path string, rule *Rule, level diag.Level, option int, r diag.Reporter) *Context {
	return &Context{
		Doc:      doc,
		Path:     path,
		Level:    level,
		Option:   option,
		ruleID:   rule.ID,
		reporter: r,
	}
}

// RuleID returns the identifier of the running rule.
func (c *Context) RuleID() string {
	return c.ruleID
}

// Report starts a diagnostic covering [start, end).
func (c *Context) Report(start, end int, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(c.reporter, c.Level, c.ruleID, c.Doc.Span(start, end), msg)
}

// Reportf reports a zero-width diagnostic at off.
func (c *Context) Reportf(off int, format string, args ...any) {
	c.Report(off, off, fmt.Sprintf(format, args...)).Emit()
}

// ReportFile reports a diagnostic about the file as a whole.
func (c *Context) ReportFile(msg string) {
	diag.NewReportBuilder(c.reporter, c.Level, c.ruleID, diag.FileSpan(c.Doc.File.ID), msg).Emit()
}

// Edit builds a fix edit replacing [start, end) with text.
func (c *Context) Edit(start, end int, text string) diag.FixEdit {
	span := c.Doc.Span(start, end)
	return fix.Replace(span, text, string(c.Doc.Source[span.Start:span.End]))
}
