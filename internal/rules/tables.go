package rules

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"gfmlint/internal/mdast"
)

type tableBlock struct {
	header, delimiter, last int
}

func tables(doc *mdast.Document) []tableBlock {
	var out []tableBlock
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		t, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue
		}
		first, last := doc.TableLines(t)
		if first > 0 {
			out = append(out, tableBlock{header: first, delimiter: first + 1, last: last})
		}
		return ast.WalkSkipChildren
	})
	return out
}

// rowText strips container prefixes and returns the row with the offset of
// its first byte and its indentation width.
func rowText(l mdast.Line) (string, int, int) {
	rest := mdast.StripContainers(l.Text)
	trimmed := strings.TrimLeft(rest, " \t")
	return strings.TrimRight(trimmed, " \t"), l.Start + len(l.Text) - len(trimmed), len(rest) - len(trimmed)
}

// pipes returns the byte indexes of unescaped pipes in row.
func pipes(row string) []int {
	var out []int
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			out = append(out, i)
		}
	}
	return out
}

func checkTablePipes(c *Context) {
	for _, t := range tables(c.Doc) {
		for n := t.header; n <= t.last; n++ {
			row, off, _ := rowText(c.Doc.Line(n))
			if row == "" {
				continue
			}
			ps := pipes(row)
			if len(ps) == 0 || ps[0] != 0 {
				c.Reportf(off, "Missing initial pipe in table fence")
			}
			if len(ps) == 0 || ps[len(ps)-1] != len(row)-1 {
				c.Reportf(off+len(row), "Missing final pipe in table fence")
			}
		}
	}
}

func checkTableIndentation(c *Context) {
	for _, t := range tables(c.Doc) {
		for n := t.header; n <= t.last; n++ {
			row, off, indent := rowText(c.Doc.Line(n))
			if row != "" && indent > 0 {
				c.Reportf(off-indent, "Do not indent table rows")
			}
		}
	}
}

func checkTableCellPadding(c *Context) {
	for _, t := range tables(c.Doc) {
		for n := t.header; n <= t.last; n++ {
			if n == t.delimiter {
				continue
			}
			row, off, _ := rowText(c.Doc.Line(n))
			ps := pipes(row)
			for i := 0; i+1 < len(ps); i++ {
				cell := row[ps[i]+1 : ps[i+1]]
				if strings.TrimSpace(cell) == "" {
					continue
				}
				if cell[0] != ' ' {
					c.Reportf(off+ps[i]+1, "Cell should be padded")
				}
				if cell[len(cell)-1] != ' ' {
					c.Reportf(off+ps[i+1], "Cell should be padded")
				}
			}
		}
	}
}

func checkTableDelimiterLength(c *Context) {
	for _, t := range tables(c.Doc) {
		row, off, _ := rowText(c.Doc.Line(t.delimiter))
		start := 0
		for _, cell := range strings.Split(row, "|") {
			trimmed := strings.Trim(strings.TrimSpace(cell), ":")
			if trimmed != "" && strings.Count(trimmed, "-") < c.Option {
				c.Reportf(off+start+strings.Index(cell, trimmed), "Table separator row should have at least %d dashes in each cell", c.Option)
			}
			start += len(cell) + 1
		}
	}
}
