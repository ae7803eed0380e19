package rules

import (
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"gfmlint/internal/mdast"
)

type checkbox struct {
	node  *extast.TaskCheckBox
	open  int // offset of '['
	after int // offset of the content following the checkbox, -1 when none
}

func checkboxes(doc *mdast.Document) []checkbox {
	var out []checkbox
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue
		}
		box, ok := mdast.IsTask(item)
		if !ok {
			return ast.WalkContinue
		}
		block := item.FirstChild()
		if block.Lines().Len() == 0 {
			return ast.WalkContinue
		}
		cb := checkbox{node: box, open: block.Lines().At(0).Start, after: -1}
		if next := box.NextSibling(); next != nil {
			if off, ok := doc.Offset(next); ok {
				cb.after = off
			}
		}
		if cb.open+2 < len(doc.Source) && doc.Source[cb.open] == '[' {
			out = append(out, cb)
		}
		return ast.WalkContinue
	})
	return out
}

func checkCheckboxCharacter(c *Context) {
	for _, cb := range checkboxes(c.Doc) {
		value := c.Doc.Source[cb.open+1]
		want := byte(' ')
		if cb.node.IsChecked {
			want = 'x'
		}
		if value == want {
			continue
		}
		c.Report(cb.open, cb.open+3, "Checkbox marker should be either [ ] or [x]").
			WithFix("Normalize checkbox", c.Edit(cb.open+1, cb.open+2, string(want))).
			Emit()
	}
}

func checkCheckboxContentIndent(c *Context) {
	for _, cb := range checkboxes(c.Doc) {
		if cb.after < 0 {
			continue
		}
		gap := cb.after - (cb.open + 3)
		switch {
		case gap == 0:
			c.Reportf(cb.open+3, "Checkbox should be followed by a space")
		case gap > 1:
			c.Reportf(cb.open+4, "Checkbox should be followed by a single space, remove %d", gap-1)
		}
	}
}
