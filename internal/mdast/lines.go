package mdast

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// LineKind classifies a raw line by the block that owns it.
type LineKind uint8

const (
	LineBlank LineKind = 1 << iota
	// LineCode covers indented code and fenced code including both fences.
	LineCode
	LineHTML
	LineTable
	// LineSetext marks the underline of a setext heading.
	LineSetext
	LineHeading
)

// Line is one source line without its line feed.
type Line struct {
	Num   int
	Start int
	Text  string
	Kind  LineKind
}

func (l Line) Is(k LineKind) bool {
	return l.Kind&k != 0
}

// Verbatim reports whether the line belongs to code or raw HTML.
func (l Line) Verbatim() bool {
	return l.Is(LineCode | LineHTML)
}

// Fence describes a fenced code block.
type Fence struct {
	Node   *ast.FencedCodeBlock
	Open   int // 1-based line of the opening fence
	Close  int // 1-based line of the closing fence, 0 when unclosed
	Marker byte
	Width  int
	Info   string
	Indent int // columns before the marker, after container prefixes
}

func (d *Document) buildLines() {
	n := d.File.LineCount()
	d.Lines = make([]Line, n)
	for i := range n {
		num := i + 1
		start := int(d.File.LineStart(num))
		txt := d.File.GetLine(num)
		l := Line{Num: num, Start: start, Text: txt}
		if strings.TrimSpace(txt) == "" {
			l.Kind |= LineBlank
		}
		d.Lines[i] = l
	}

	searchFrom := 1
	d.Walk(func(node ast.Node) ast.WalkStatus {
		switch b := node.(type) {
		case *ast.FencedCodeBlock:
			f := d.locateFence(b, searchFrom)
			if f.Open == 0 {
				return ast.WalkSkipChildren
			}
			d.fenceByNode[b] = len(d.Fences)
			d.Fences = append(d.Fences, f)
			last := f.Close
			if last == 0 {
				last = d.lastSegmentLine(b, f.Open)
			}
			d.mark(f.Open, last, LineCode)
			searchFrom = last + 1
			return ast.WalkSkipChildren
		case *ast.CodeBlock:
			d.markSegments(b, LineCode)
			return ast.WalkSkipChildren
		case *ast.HTMLBlock:
			d.markSegments(b, LineHTML)
			if b.HasClosure() {
				l := d.LineOf(b.ClosureLine.Start)
				d.mark(l, l, LineHTML)
			}
			return ast.WalkSkipChildren
		case *extast.Table:
			first, last := d.TableLines(b)
			if first > 0 {
				d.mark(first, last, LineTable)
			}
		case *ast.Heading:
			d.markSegments(b, LineHeading)
			if u := d.setextUnderline(b); u > 0 {
				d.mark(u, u, LineSetext)
			}
		}
		return ast.WalkContinue
	})
}

func (d *Document) mark(from, to int, k LineKind) {
	for l := from; l <= to; l++ {
		if l >= 1 && l <= len(d.Lines) {
			d.Lines[l-1].Kind |= k
		}
	}
}

func (d *Document) markSegments(n ast.Node, k LineKind) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		l := d.LineOf(seg.Start)
		d.mark(l, l, k)
	}
}

func (d *Document) lastSegmentLine(n ast.Node, fallback int) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return fallback
	}
	seg := lines.At(lines.Len() - 1)
	stop := seg.Stop
	if stop > seg.Start {
		stop-- // the segment ends after its line feed
	}
	return d.LineOf(stop)
}

// locateFence finds the fence lines of b. goldmark records the info string
// and content segments but not the fences themselves.
func (d *Document) locateFence(b *ast.FencedCodeBlock, searchFrom int) Fence {
	f := Fence{Node: b}
	switch {
	case b.Info != nil:
		f.Open = d.LineOf(b.Info.Segment.Start)
	case b.Lines().Len() > 0:
		f.Open = d.LineOf(b.Lines().At(0).Start) - 1
	default:
		for l := searchFrom; l <= len(d.Lines); l++ {
			if _, _, ok := fenceRun(d.Lines[l-1].Text); ok && !d.Lines[l-1].Is(LineCode) {
				f.Open = l
				break
			}
		}
	}
	if f.Open < 1 || f.Open > len(d.Lines) {
		f.Open = 0
		return f
	}
	open := d.Lines[f.Open-1].Text
	col, rest, ok := fenceRun(open)
	if !ok {
		f.Open = 0
		return f
	}
	f.Indent = col
	f.Marker = rest[0]
	for f.Width < len(rest) && rest[f.Width] == f.Marker {
		f.Width++
	}
	f.Info = strings.TrimSpace(rest[f.Width:])

	next := d.lastSegmentLine(b, f.Open) + 1
	if next <= len(d.Lines) {
		if _, r, ok := fenceRun(d.Lines[next-1].Text); ok && r[0] == f.Marker {
			width := 0
			for width < len(r) && r[width] == f.Marker {
				width++
			}
			if width >= f.Width && strings.TrimSpace(r[width:]) == "" {
				f.Close = next
			}
		}
	}
	return f
}

// fenceRun strips container prefixes ('>' and indentation) and reports
// whether the rest starts with a fence of three or more backticks or tildes.
func fenceRun(line string) (int, string, bool) {
	rest := StripContainers(line)
	indent := len(rest) - len(strings.TrimLeft(rest, " "))
	rest = rest[indent:]
	if len(rest) < 3 || rest[0] != '`' && rest[0] != '~' {
		return 0, "", false
	}
	if rest[1] != rest[0] || rest[2] != rest[0] {
		return 0, "", false
	}
	return indent, rest, true
}

// StripContainers removes blockquote markers and list indentation.
func StripContainers(line string) string {
	for {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, ">") {
			line = strings.TrimPrefix(trimmed[1:], " ")
			continue
		}
		return line
	}
}

// TableLines returns the first (header) and last line of a table.
func (d *Document) TableLines(t *extast.Table) (int, int) {
	first, last := 0, 0
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell.Lines().Len() == 0 {
				continue
			}
			l := d.LineOf(cell.Lines().At(0).Start)
			if first == 0 || l < first {
				first = l
			}
			if l > last {
				last = l
			}
			break
		}
	}
	if first > 0 && last == first {
		last = first + 1 // delimiter row
	}
	return first, last
}

// TableDelimiterLine returns the line of the delimiter row of t.
func (d *Document) TableDelimiterLine(t *extast.Table) int {
	first, _ := d.TableLines(t)
	if first == 0 {
		return 0
	}
	return first + 1
}

// setextUnderline returns the underline line of a setext heading or 0.
func (d *Document) setextUnderline(h *ast.Heading) int {
	lines := h.Lines()
	if lines.Len() == 0 || h.Level > 2 {
		return 0
	}
	u := d.lastSegmentLine(h, 0) + 1
	if u > len(d.Lines) {
		return 0
	}
	txt := strings.TrimSpace(StripContainers(d.Lines[u-1].Text))
	if txt == "" {
		return 0
	}
	want := byte('=')
	if h.Level == 2 {
		want = '-'
	}
	if strings.Trim(txt, string(want)) != "" {
		return 0
	}
	// an ATX heading followed by a rule is not setext
	if _, _, atx := ATXHashes(d.Lines[d.LineOf(lines.At(0).Start)-1].Text); atx {
		return 0
	}
	return u
}

// ATXHashes reports the byte column and count of the opening hashes of an
// ATX heading line. The hashes must be followed by whitespace or the end of
// the line.
func ATXHashes(line string) (int, int, bool) {
	rest := StripContainers(line)
	col := len(line) - len(rest)
	trimmed := strings.TrimLeft(rest, " ")
	col += len(rest) - len(trimmed)
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, 0, false
	}
	if n < len(trimmed) && trimmed[n] != ' ' && trimmed[n] != '\t' {
		return 0, 0, false
	}
	return col, n, true
}
