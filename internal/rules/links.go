package rules

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"

	"gfmlint/internal/fix"
	"gfmlint/internal/mdast"
)

func checkLiteralURLs(c *Context) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		link, ok := n.(*ast.AutoLink)
		if !ok {
			return ast.WalkContinue
		}
		off, ok := c.Doc.Offset(link)
		if !ok || off > 0 && c.Doc.Source[off-1] == '<' {
			return ast.WalkContinue
		}
		b := c.Report(off, off, "Don’t use literal URLs without angle brackets")
		if link.Protocol == nil {
			end := off + len(link.Label(c.Doc.Source))
			b.WithFix("Wrap URL in angle brackets", fix.Wrap(c.Doc.Span(off, end), "<", ">")...)
		}
		b.Emit()
		return ast.WalkContinue
	})
}

var emptyLinkText = regexp.MustCompile(`\[\s*\]\(`)

// linkFinder resolves the opening bracket of links. Links with text are
// located from their first text segment; empty ones by scanning their
// block left to right.
type linkFinder struct {
	doc    *mdast.Document
	cursor map[int]int
}

func newLinkFinder(doc *mdast.Document) *linkFinder {
	return &linkFinder{doc: doc, cursor: make(map[int]int)}
}

func (f *linkFinder) open(link *ast.Link) (int, bool) {
	src := f.doc.Source
	if first, ok := link.FirstChild().(*ast.Text); ok {
		if s := first.Segment.Start; s > 0 && src[s-1] == '[' {
			return s - 1, true
		}
	}
	if link.FirstChild() != nil {
		if off, ok := f.doc.Offset(link); ok {
			if i := strings.LastIndexByte(string(src[:off]), '['); i >= 0 {
				return i, true
			}
		}
		return 0, false
	}
	start, end := f.doc.BlockRange(link)
	if start < 0 {
		return 0, false
	}
	from := start
	if cur, ok := f.cursor[start]; ok {
		from = cur
	}
	loc := emptyLinkText.FindIndex(src[from:end])
	if loc == nil {
		return 0, false
	}
	f.cursor[start] = from + loc[1]
	return from + loc[0], true
}

func links(doc *mdast.Document, fn func(link *ast.Link, open int)) {
	finder := newLinkFinder(doc)
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue
		}
		if open, ok := finder.open(link); ok {
			fn(link, open)
		}
		return ast.WalkContinue
	})
}

func checkShortcutReferenceLink(c *Context) {
	src := c.Doc.Source
	links(c.Doc, func(link *ast.Link, open int) {
		end, ok := c.Doc.End(link)
		if !ok {
			return
		}
		_, blockEnd := c.Doc.BlockRange(link)
		closing := strings.IndexByte(string(src[end:blockEnd]), ']')
		if closing < 0 {
			return
		}
		after := end + closing + 1
		if after < len(src) && (src[after] == '(' || src[after] == '[') {
			return
		}
		c.Reportf(open, "Use the trailing `[]` on reference links")
	})
}

func checkEmptyURL(c *Context) {
	links(c.Doc, func(link *ast.Link, open int) {
		if len(link.Destination) == 0 {
			c.Reportf(open, "Link should have a destination")
		}
	})
}

func checkEmptyLinkText(c *Context) {
	links(c.Doc, func(link *ast.Link, open int) {
		if link.FirstChild() != nil && c.Doc.Text(link) != "" {
			return
		}
		if _, image := link.FirstChild().(*ast.Image); image {
			return
		}
		c.Reportf(open, "Link text should not be empty")
	})
}

var (
	fullReference = regexp.MustCompile(`\[([^\[\]]*)\]\[([^\[\]]*)\]`)
	codeSpan      = regexp.MustCompile("`+[^`]*`+")
)

func checkUndefinedReferences(c *Context) {
	for _, l := range c.Doc.Lines {
		if l.Verbatim() || l.Is(mdast.LineBlank) {
			continue
		}
		txt := codeSpan.ReplaceAllStringFunc(l.Text, func(s string) string {
			return strings.Repeat(" ", len(s))
		})
		for _, m := range fullReference.FindAllStringSubmatchIndex(txt, -1) {
			if m[0] > 0 && txt[m[0]-1] == '\\' {
				continue
			}
			label := txt[m[4]:m[5]]
			if strings.TrimSpace(label) == "" {
				label = txt[m[2]:m[3]]
			}
			if strings.TrimSpace(label) == "" || c.Doc.HasReference(label) {
				continue
			}
			c.Reportf(l.Start+m[0], "Found reference to undefined definition")
		}
	}
}
