package rules

import (
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"gfmlint/internal/mdast"
)

// openingDelimiter returns the offset of the first delimiter byte of an
// emphasis-like node, given the width of its delimiter run.
func openingDelimiter(doc *mdast.Document, n ast.Node) (int, int, bool) {
	first := n.FirstChild()
	if first == nil {
		return 0, 0, false
	}
	var inner int
	switch f := first.(type) {
	case *ast.Text:
		inner = f.Segment.Start
	case *ast.Emphasis, *extast.Strikethrough:
		off, _, ok := openingDelimiter(doc, f)
		if !ok {
			return 0, 0, false
		}
		inner = off
	default:
		return 0, 0, false
	}
	width := 0
	switch e := n.(type) {
	case *ast.Emphasis:
		width = e.Level
	case *extast.Strikethrough:
		for inner-width-1 >= 0 && doc.Source[inner-width-1] == '~' && width < 2 {
			width++
		}
	}
	if width == 0 || inner-width < 0 {
		return 0, 0, false
	}
	return inner - width, width, true
}

func checkStrikethroughMarker(c *Context) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		s, ok := n.(*extast.Strikethrough)
		if !ok {
			return ast.WalkContinue
		}
		if off, width, ok := openingDelimiter(c.Doc, s); ok && width == 1 {
			c.Reportf(off, "Unexpected strikethrough marker `~`, expected `~~`")
		}
		return ast.WalkContinue
	})
}

func checkEmphasisMarker(c *Context) {
	checkEmphasisDelimiter(c, 1, "Emphasis should use `*` as a marker")
}

func checkStrongMarker(c *Context) {
	checkEmphasisDelimiter(c, 2, "Strong should use `*` as a marker")
}

func checkEmphasisDelimiter(c *Context, level int, msg string) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		e, ok := n.(*ast.Emphasis)
		if !ok || e.Level != level {
			return ast.WalkContinue
		}
		if off, _, ok := openingDelimiter(c.Doc, e); ok && c.Doc.Source[off] == '_' {
			c.Reportf(off, "%s", msg)
		}
		return ast.WalkContinue
	})
}

func checkInlinePadding(c *Context) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue
		}
		first, ok := link.FirstChild().(*ast.Text)
		if !ok {
			return ast.WalkContinue
		}
		last, ok := link.LastChild().(*ast.Text)
		if !ok {
			return ast.WalkContinue
		}
		src := c.Doc.Source
		open := first.Segment.Start
		closing := last.Segment.Stop
		if open == 0 || open >= len(src) || src[open-1] != '[' {
			return ast.WalkContinue
		}
		padded := isSpace(src[open])
		if closing > 0 && closing <= len(src) {
			padded = padded || isSpace(src[closing-1])
		}
		if padded {
			c.Reportf(open-1, "Don’t pad `link` with inner spaces")
		}
		return ast.WalkContinue
	})
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
