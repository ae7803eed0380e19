package mdast

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Text returns the plain text content of n: text segments, code spans and
// autolink labels, with soft line breaks turned into spaces.
func (d *Document) Text(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(d.Source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(d.Source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *extast.TaskCheckBox:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// HeadingStyle is the syntax a heading is written in.
type HeadingStyle uint8

const (
	StyleATX HeadingStyle = iota
	StyleATXClosed
	StyleSetext
)

func (s HeadingStyle) String() string {
	switch s {
	case StyleATXClosed:
		return "atx-closed"
	case StyleSetext:
		return "setext"
	}
	return "atx"
}

// HeadingInfo locates the markup of a heading.
type HeadingInfo struct {
	Line   int
	Offset int // first '#' for ATX, first text byte for setext
	Style  HeadingStyle
}

// Heading resolves the position and style of h. Headings without content
// ("#" alone) cannot be located and report false.
func (d *Document) Heading(h *ast.Heading) (HeadingInfo, bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return HeadingInfo{}, false
	}
	seg := lines.At(0)
	info := HeadingInfo{Line: d.LineOf(seg.Start), Offset: seg.Start}
	if d.setextUnderline(h) > 0 {
		info.Style = StyleSetext
		return info, true
	}

	lineStart := d.Line(info.Line).Start
	p := seg.Start
	for p > lineStart && (d.Source[p-1] == ' ' || d.Source[p-1] == '\t') {
		p--
	}
	for p > lineStart && d.Source[p-1] == '#' {
		p--
	}
	info.Offset = p

	line := d.Line(info.Line)
	last := lines.At(lines.Len() - 1)
	if stop := last.Stop - line.Start; stop >= 0 && stop <= len(line.Text) {
		tail := strings.TrimSpace(line.Text[stop:])
		if tail != "" && strings.Trim(tail, "#") == "" {
			info.Style = StyleATXClosed
		}
	}
	return info, true
}
