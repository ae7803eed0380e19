package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/unicode/norm"

	"gfmlint/internal/mdast"
)

type heading struct {
	node *ast.Heading
	info mdast.HeadingInfo
	text string
}

// headings returns the locatable headings of the document in order.
func headings(doc *mdast.Document) []heading {
	var out []heading
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue
		}
		if info, ok := doc.Heading(h); ok {
			out = append(out, heading{node: h, info: info, text: doc.Text(h)})
		}
		return ast.WalkSkipChildren
	})
	return out
}

func checkHeadingStyle(c *Context) {
	for _, h := range headings(c.Doc) {
		if h.info.Style != mdast.StyleATX {
			c.Reportf(h.info.Offset, "Headings should use atx")
		}
	}
}

func checkHeadingIncrement(c *Context) {
	prev := 0
	for _, h := range headings(c.Doc) {
		rank := h.node.Level
		if prev > 0 && rank > prev+1 {
			c.Reportf(h.info.Offset, "Unexpected heading rank `%d`, expected rank `%d`", rank, prev+1)
		}
		prev = rank
	}
}

// headingKey folds a heading text for comparison: NFC, lower case,
// collapsed whitespace.
func headingKey(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func checkDuplicateHeadings(c *Context) {
	seen := make(map[string]struct{})
	for _, h := range headings(c.Doc) {
		key := headingKey(h.text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			c.Reportf(h.info.Offset, "Unexpected heading with equivalent text, expected unique headings")
			continue
		}
		seen[key] = struct{}{}
	}
}

func checkMultipleToplevel(c *Context) {
	found := false
	for _, h := range headings(c.Doc) {
		if h.node.Level != 1 {
			continue
		}
		if found {
			c.Reportf(h.info.Offset, "Unexpected duplicate toplevel heading, exected a single heading with rank `1`")
		}
		found = true
	}
}

func checkHeadingLength(c *Context) {
	limit := c.Option
	for _, h := range headings(c.Doc) {
		if n := utf8.RuneCountInString(h.text); n > limit {
			c.Reportf(h.info.Offset, "Unexpected `%d` characters in heading, expected at most `%d` characters", n, limit)
		}
	}
}

const headingPunctuation = ".,;:!?"

func checkHeadingPunctuation(c *Context) {
	for _, h := range headings(c.Doc) {
		if h.text == "" {
			continue
		}
		last := h.text[len(h.text)-1]
		if strings.IndexByte(headingPunctuation, last) < 0 {
			continue
		}
		c.Reportf(h.info.Offset, "Unexpected character `%c` at end of heading, remove it", last)
	}
}

var missingSpaceATX = regexp.MustCompile(`^#{1,6}[^#\s]`)

func checkMissingSpaceATX(c *Context) {
	for _, l := range c.Doc.Lines {
		if l.Verbatim() || l.Is(mdast.LineHeading|mdast.LineTable) {
			continue
		}
		rest := mdast.StripContainers(l.Text)
		trimmed := strings.TrimLeft(rest, " ")
		if len(rest)-len(trimmed) > 3 || !missingSpaceATX.MatchString(trimmed) {
			continue
		}
		c.Reportf(l.Start+len(l.Text)-len(trimmed), "Heading should have a space after the hash signs")
	}
}

func checkEmphasisAsHeading(c *Context) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		p, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue
		}
		child := p.FirstChild()
		if child == nil || child.NextSibling() != nil {
			return ast.WalkSkipChildren
		}
		if _, ok := child.(*ast.Emphasis); !ok {
			return ast.WalkSkipChildren
		}
		if _, next := p.NextSibling().(*ast.Paragraph); !next {
			return ast.WalkSkipChildren
		}
		if off, ok := c.Doc.Offset(p); ok {
			c.Reportf(off, "Don’t use emphasis to introduce a section, use a heading")
		}
		return ast.WalkSkipChildren
	})
}
