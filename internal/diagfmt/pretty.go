package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

type palette struct {
	path    *color.Color
	err     *color.Color
	warn    *color.Color
	note    *color.Color
	rule    *color.Color
	gutter  *color.Color
	caret   *color.Color
	dim     *color.Color
	success *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		note:    color.New(color.FgCyan, color.Bold),
		rule:    color.New(color.FgMagenta),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		dim:     color.New(color.Faint),
		success: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.path, p.err, p.warn, p.note, p.rule, p.gutter, p.caret, p.dim, p.success} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s validate.Severity) *color.Color {
	switch s {
	case validate.SeverityError:
		return p.err
	case validate.SeverityWarning:
		return p.warn
	default:
		return p.note
	}
}

// Pretty форматирует результаты в человекочитаемый вид.
// Для каждого результата печатает:
// <path>:<line>:<col>: <SEV> <rule>: <localized message>
// затем строку исходника с ^ под колонкой, затем оригинал сообщения,
// если перевод от него отличается.
func Pretty(w io.Writer, reports []FileReport, loc *locale.Localizer, opts PrettyOpts) error {
	if loc == nil {
		loc = locale.English
	}
	p := newPalette(opts.Color)
	var all []validate.ValidationResult
	fixed := 0
	for _, rep := range reports {
		path := displayPath(rep.Path, opts.PathMode, opts.BaseDir)
		for _, r := range rep.Results {
			if err := prettyResult(w, p, loc, opts, path, rep.Source, r); err != nil {
				return err
			}
		}
		all = append(all, rep.Results...)
		fixed += rep.Fixed
	}
	if !opts.Summary {
		return nil
	}
	return prettySummary(w, p, loc, all, fixed)
}

func prettyResult(w io.Writer, p palette, loc *locale.Localizer, opts PrettyOpts, path string, src []byte, r validate.ValidationResult) error {
	msg := loc.Localize(r.Message, r.RuleID)
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, opts.Width, "…")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n",
		p.path.Sprint(path), r.Line, r.Column,
		p.severity(r.Severity).Sprint(strings.ToUpper(loc.Severity(r.Severity))),
		p.rule.Sprint(r.RuleID), msg)

	lines := snippet(src, r.Line, opts.Context)
	if len(lines) > 0 {
		width := len(fmt.Sprint(r.Line))
		for _, l := range lines {
			fmt.Fprintf(&b, " %s %s\n", p.gutter.Sprintf("%*d |", width, l.num), l.text)
		}
		pad := caretPad(rawLine(src, r.Line), r.Column)
		fmt.Fprintf(&b, " %s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), p.caret.Sprint("^"))
	}
	if opts.ShowCategory {
		fmt.Fprintf(&b, "  = %s: %s\n", loc.Text(locale.TextCategory), loc.Category(r.Category))
	}
	if opts.ShowOriginal && msg != r.Message {
		fmt.Fprintf(&b, "  = %s\n", p.dim.Sprintf("%s: %s", loc.Text(locale.TextOriginal), r.Message))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func prettySummary(w io.Writer, p palette, loc *locale.Localizer, all []validate.ValidationResult, fixed int) error {
	var line string
	if len(all) == 0 {
		line = p.success.Sprint(loc.Text(locale.TextNoErrors))
	} else {
		counts := validate.CountBySeverity(all)
		line = fmt.Sprintf("%d %s (%s %d, %s %d, %s %d)",
			len(all), loc.Text(locale.TextProblems),
			p.err.Sprint(loc.Severity(validate.SeverityError)), counts[validate.SeverityError],
			p.warn.Sprint(loc.Severity(validate.SeverityWarning)), counts[validate.SeverityWarning],
			p.note.Sprint(loc.Severity(validate.SeverityNote)), counts[validate.SeverityNote])
	}
	if fixed > 0 {
		line += fmt.Sprintf("; %d %s", fixed, loc.Text(locale.TextFixed))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Short prints one line per result: severity rule path:line:col message.
func Short(w io.Writer, reports []FileReport, loc *locale.Localizer, mode PathMode, baseDir string) error {
	if loc == nil {
		loc = locale.English
	}
	for _, rep := range reports {
		path := displayPath(rep.Path, mode, baseDir)
		for _, r := range rep.Results {
			if _, err := fmt.Fprintf(w, "%s %s %s:%d:%d %s\n",
				r.Severity, r.RuleID, path, r.Line, r.Column, loc.Localize(r.Message, r.RuleID)); err != nil {
				return err
			}
		}
	}
	return nil
}
