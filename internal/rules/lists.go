package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"gfmlint/internal/mdast"
)

type listItem struct {
	node      *ast.ListItem
	list      *ast.List
	index     int // position inside the list
	marker    int // offset of the first marker byte
	markerEnd int
	content   int
}

// listItems locates the marker of every list item whose first line holds
// text. Items opening with code or a nested list are skipped.
func listItems(doc *mdast.Document) []listItem {
	var out []listItem
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		list, ok := n.(*ast.List)
		if !ok {
			return ast.WalkContinue
		}
		i := 0
		for child := list.FirstChild(); child != nil; child = child.NextSibling() {
			item, ok := child.(*ast.ListItem)
			if !ok {
				continue
			}
			if li, ok := locateItem(doc, list, item); ok {
				li.index = i
				out = append(out, li)
			}
			i++
		}
		return ast.WalkContinue
	})
	return out
}

func locateItem(doc *mdast.Document, list *ast.List, item *ast.ListItem) (listItem, bool) {
	first := item.FirstChild()
	switch first.(type) {
	case *ast.TextBlock, *ast.Paragraph:
	default:
		return listItem{}, false
	}
	if first.Lines().Len() == 0 {
		return listItem{}, false
	}
	content := first.Lines().At(0).Start
	lineStart := doc.Line(doc.LineOf(content)).Start
	src := doc.Source

	p := content
	for p > lineStart && (src[p-1] == ' ' || src[p-1] == '\t') {
		p--
	}
	end := p
	if p == lineStart {
		return listItem{}, false
	}
	if list.IsOrdered() {
		if src[p-1] != '.' && src[p-1] != ')' {
			return listItem{}, false
		}
		p--
		for p > lineStart && src[p-1] >= '0' && src[p-1] <= '9' {
			p--
		}
		if p == end-1 {
			return listItem{}, false
		}
	} else {
		if src[p-1] != list.Marker {
			return listItem{}, false
		}
		p--
	}
	return listItem{node: item, list: list, marker: p, markerEnd: end, content: content}, true
}

func checkUnorderedMarker(c *Context) {
	for _, li := range listItems(c.Doc) {
		if li.list.IsOrdered() || li.list.Marker == '-' {
			continue
		}
		c.Report(li.marker, li.markerEnd, "List item marker should be a hyphen").
			WithFix("Use - as list marker", c.Edit(li.marker, li.markerEnd, "-")).
			Emit()
	}
}

func checkOrderedMarkerStyle(c *Context) {
	for _, li := range listItems(c.Doc) {
		if li.list.IsOrdered() && li.list.Marker != '.' {
			c.Reportf(li.marker, "Marker style should be `.`")
		}
	}
}

func checkOrderedMarkerValue(c *Context) {
	for _, li := range listItems(c.Doc) {
		if !li.list.IsOrdered() {
			continue
		}
		value, err := strconv.Atoi(string(c.Doc.Source[li.marker : li.markerEnd-1]))
		if err != nil || value == 1 {
			continue
		}
		if li.index == 0 {
			c.Reportf(li.marker, "Ordered list should start with 1")
			continue
		}
		c.Reportf(li.marker, "Marker should be `1`, was `%d`", value)
	}
}

func checkListItemIndent(c *Context) {
	for _, li := range listItems(c.Doc) {
		gap := li.content - li.markerEnd
		if gap <= 1 {
			continue
		}
		c.Reportf(li.markerEnd, "Incorrect list-item indent: remove %d %s", gap-1, plural(gap-1, "space"))
	}
}

var (
	unorderedNoSpace = regexp.MustCompile(`^[-+][^\s\-+\d]`)
	orderedNoSpace   = regexp.MustCompile(`^\d{1,9}[.)]\pL`)
)

func checkListMarkerSpace(c *Context) {
	prevBlank := true
	for _, l := range c.Doc.Lines {
		startsBlock := prevBlank
		prevBlank = l.Is(mdast.LineBlank)
		if l.Verbatim() || l.Is(mdast.LineTable|mdast.LineHeading|mdast.LineBlank) {
			continue
		}
		trimmed := strings.TrimLeft(mdast.StripContainers(l.Text), " ")
		off := l.Start + len(l.Text) - len(trimmed)
		switch {
		case unorderedNoSpace.MatchString(trimmed):
			c.Reportf(off, "Unordered list item marker should be followed by a space")
		case startsBlock && orderedNoSpace.MatchString(trimmed):
			c.Reportf(off, "Ordered list item marker should be followed by a space")
		}
	}
}
