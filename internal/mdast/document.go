package mdast

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"gfmlint/internal/source"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Document is a parsed Markdown file.
type Document struct {
	File   *source.File
	Source []byte
	Root   ast.Node
	Lines  []Line
	Fences []Fence

	fenceByNode map[*ast.FencedCodeBlock]int
	refs        map[string]struct{}
}

// Parse builds a document from a file of the FileSet.
func Parse(file *source.File) *Document {
	src := file.Content
	pc := parser.NewContext()
	root := markdown.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	doc := &Document{
		File:        file,
		Source:      src,
		Root:        root,
		fenceByNode: make(map[*ast.FencedCodeBlock]int),
		refs:        make(map[string]struct{}),
	}
	for _, ref := range pc.References() {
		doc.refs[util.ToLinkReference(ref.Label())] = struct{}{}
	}
	doc.buildLines()
	return doc
}

// HasReference reports whether a definition exists for label.
// Labels are compared the way CommonMark matches them.
func (d *Document) HasReference(label string) bool {
	_, ok := d.refs[util.ToLinkReference([]byte(label))]
	return ok
}

// LineCount returns the number of lines of the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Line returns the 1-based line n; out of range lines are zero values.
func (d *Document) Line(n int) Line {
	if n < 1 || n > len(d.Lines) {
		return Line{}
	}
	return d.Lines[n-1]
}

// LineOf returns the 1-based line holding byte offset off.
func (d *Document) LineOf(off int) int {
	if off < 0 {
		return 0
	}
	return d.File.LineOf(uint32(off))
}

// Span returns a span of the document's file.
func (d *Document) Span(start, end int) source.Span {
	if end < start {
		end = start
	}
	return source.Span{File: d.File.ID, Start: uint32(start), End: uint32(end)}
}

// Walk visits every node in document order, entering only.
func (d *Document) Walk(fn func(n ast.Node) ast.WalkStatus) {
	_ = ast.Walk(d.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		return fn(n), nil
	})
}

// Offset returns the byte offset where the source of n begins, when goldmark
// kept enough segments to tell.
func (d *Document) Offset(n ast.Node) (int, bool) {
	switch node := n.(type) {
	case *ast.FencedCodeBlock:
		if idx, ok := d.fenceByNode[node]; ok {
			return d.Lines[d.Fences[idx].Open-1].Start, true
		}
		return 0, false
	case *ast.Text:
		return node.Segment.Start, true
	case *ast.AutoLink:
		return d.autoLinkOffset(node)
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := d.Offset(c); ok {
			return off, true
		}
	}
	return 0, false
}

// autoLinkOffset finds the label of an autolink inside its enclosing block.
func (d *Document) autoLinkOffset(n *ast.AutoLink) (int, bool) {
	label := n.Label(d.Source)
	from, to := d.BlockRange(n)
	if from < 0 {
		return 0, false
	}
	prev := n.PreviousSibling()
	if prev != nil {
		if off, ok := d.End(prev); ok && off > from {
			from = off
		}
	}
	if i := indexFrom(d.Source[:to], label, from); i >= 0 {
		return i, true
	}
	return 0, false
}

// End returns the offset right after the last text segment of n.
func (d *Document) End(n ast.Node) (int, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Stop, true
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop, true
		}
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if off, ok := d.End(c); ok {
			return off, true
		}
	}
	return 0, false
}

// BlockRange returns the byte range of the nearest enclosing block that has
// line segments, or -1 when there is none.
func (d *Document) BlockRange(n ast.Node) (int, int) {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != ast.TypeBlock {
			continue
		}
		lines := p.Lines()
		if lines == nil || lines.Len() == 0 {
			continue
		}
		return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
	}
	return -1, -1
}

// IsTask reports whether a list item starts with a task checkbox.
func IsTask(item ast.Node) (*extast.TaskCheckBox, bool) {
	block := item.FirstChild()
	if block == nil {
		return nil, false
	}
	box, ok := block.FirstChild().(*extast.TaskCheckBox)
	return box, ok
}

func indexFrom(buf, needle []byte, from int) int {
	if from < 0 || from > len(buf) || len(needle) == 0 {
		return -1
	}
	i := bytes.Index(buf[from:], needle)
	if i < 0 {
		return -1
	}
	return from + i
}
