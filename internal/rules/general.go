package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"

	"gfmlint/internal/mdast"
)

func checkConsecutiveBlankLines(c *Context) {
	lines := c.Doc.Lines
	for i := 0; i < len(lines); i++ {
		if !lines[i].Is(mdast.LineBlank) || lines[i].Verbatim() {
			continue
		}
		j := i
		for j+1 < len(lines) && lines[j+1].Is(mdast.LineBlank) && !lines[j+1].Verbatim() {
			j++
		}
		extra := j - i
		atEnd := j == len(lines)-1
		if i == 0 || atEnd {
			// leading and trailing runs have no node on one side
			extra = j - i + 1
			if i == 0 && atEnd {
				extra = 0
			}
		}
		if extra > 0 {
			c.reportBlankRun(lines, j, extra, atEnd)
		}
		i = j
	}
}

func (c *Context) reportBlankRun(lines []mdast.Line, last, extra int, atEnd bool) {
	removeFrom := lines[last-extra+1].Start
	removeTo := lines[last].Start + len(lines[last].Text) + 1
	if removeTo > len(c.Doc.Source) {
		removeTo = len(c.Doc.Source)
	}
	where := "before"
	if atEnd {
		where = "after"
	}
	c.Report(removeFrom, removeTo, fmt.Sprintf("Remove %d %s %s node", extra, plural(extra, "line"), where)).
		WithFix("Remove blank lines", c.Edit(removeFrom, removeTo, "")).
		Emit()
}

func checkTrailingSpaces(c *Context) {
	for _, l := range c.Doc.Lines {
		trimmed := strings.TrimRight(l.Text, " \t")
		if len(trimmed) == len(l.Text) {
			continue
		}
		start := l.Start + len(trimmed)
		end := l.Start + len(l.Text)
		c.Report(start, end, "Remove trailing whitespace").
			WithFix("Remove trailing whitespace", c.Edit(start, end, "")).
			Emit()
	}
}

func checkHardBreakSpaces(c *Context) {
	src := c.Doc.Source
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		t, ok := n.(*ast.Text)
		if !ok || !t.HardLineBreak() {
			return ast.WalkContinue
		}
		line := c.Doc.Line(c.Doc.LineOf(t.Segment.Stop))
		end := line.Start + len(line.Text)
		if end <= 0 || src[end-1] != ' ' {
			return ast.WalkContinue
		}
		trimmed := strings.TrimRight(line.Text, " ")
		if spaces := len(line.Text) - len(trimmed); spaces > 2 {
			c.Reportf(line.Start+len(trimmed), "Use two spaces for hard line breaks")
		}
		return ast.WalkContinue
	})
}

func checkFinalNewline(c *Context) {
	src := c.Doc.Source
	if len(src) == 0 || src[len(src)-1] == '\n' {
		return
	}
	end := len(src)
	c.Report(end, end, "Missing newline character at end of file").
		WithFix("Add final newline", c.Edit(end, end, "\n")).
		Emit()
}

func checkLineLength(c *Context) {
	limit := c.Option
	for _, l := range c.Doc.Lines {
		if l.Verbatim() || l.Is(mdast.LineTable|mdast.LineHeading) {
			continue
		}
		n := utf8.RuneCountInString(l.Text)
		if n <= limit {
			continue
		}
		// a line that only overflows inside an unbreakable word (URL) is fine
		if !strings.ContainsAny(runeSuffix(l.Text, limit), " \t") {
			continue
		}
		c.Reportf(l.Start+runeOffset(l.Text, limit), "Unexpected `%d` characters in line, expected at most `%d` characters", n, limit)
	}
}

func runeOffset(s string, n int) int {
	i := 0
	for off := range s {
		if i == n {
			return off
		}
		i++
	}
	return len(s)
}

func runeSuffix(s string, n int) string {
	return s[runeOffset(s, n):]
}

func checkMissingBlankLines(c *Context) {
	for n := c.Doc.Root.FirstChild(); n != nil; n = n.NextSibling() {
		prev := n.PreviousSibling()
		if prev == nil || n.HasBlankPreviousLines() {
			continue
		}
		off, ok := c.Doc.Offset(n)
		if !ok {
			continue
		}
		line := c.Doc.LineOf(off)
		if line > 1 && c.Doc.Line(line-1).Is(mdast.LineBlank) {
			continue
		}
		c.Reportf(c.Doc.Line(line).Start, "Missing blank line before block node")
	}
}

func checkCodeBlockStyle(c *Context) {
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		if cb, ok := n.(*ast.CodeBlock); ok && cb.Lines().Len() > 0 {
			c.Reportf(c.Doc.Line(c.Doc.LineOf(cb.Lines().At(0).Start)).Start, "Code blocks should be fenced")
		}
		return ast.WalkContinue
	})
}

func checkFencedCodeFlag(c *Context) {
	for _, f := range c.Doc.Fences {
		if f.Info == "" {
			c.Reportf(c.Doc.Line(f.Open).Start, "Missing code language flag")
		}
	}
}

func checkFencedCodeMarker(c *Context) {
	for _, f := range c.Doc.Fences {
		if f.Marker != '`' {
			c.Reportf(c.Doc.Line(f.Open).Start, "Fenced code should use ``` as a marker")
		}
	}
}

var thematicBreak = regexp.MustCompile(`^ {0,3}([-*_])(?:[ \t]*[-*_]){2,}[ \t]*$`)

func checkRuleStyle(c *Context) {
	for _, l := range c.Doc.Lines {
		if l.Verbatim() || l.Is(mdast.LineSetext|mdast.LineTable|mdast.LineHeading) {
			continue
		}
		txt := mdast.StripContainers(l.Text)
		m := thematicBreak.FindStringSubmatch(txt)
		if m == nil {
			continue
		}
		// mixed characters are not a break
		if strings.Trim(txt, " \t"+m[1]) != "" {
			continue
		}
		if strings.TrimSpace(txt) != "---" {
			c.Reportf(l.Start+len(l.Text)-len(strings.TrimLeft(txt, " ")), "Rules should use `---`")
		}
	}
}

var shellFlags = map[string]bool{
	"sh": true, "bash": true, "bats": true, "cgi": true, "command": true,
	"fcgi": true, "ksh": true, "shell": true, "tmux": true, "tool": true, "zsh": true,
}

func checkShellDollars(c *Context) {
	for _, f := range c.Doc.Fences {
		lang, _, _ := strings.Cut(f.Info, " ")
		if !shellFlags[lang] {
			continue
		}
		lines := f.Node.Lines()
		if lines.Len() == 0 {
			continue
		}
		all := true
		nonBlank := 0
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			txt := strings.TrimSpace(string(seg.Value(c.Doc.Source)))
			if txt == "" {
				continue
			}
			nonBlank++
			if !strings.HasPrefix(txt, "$ ") && txt != "$" {
				all = false
				break
			}
		}
		if all && nonBlank > 0 {
			c.Reportf(c.Doc.Line(f.Open).Start, "Do not use dollar signs before shell commands")
		}
	}
}

func checkBlockquoteIndentation(c *Context) {
	src := c.Doc.Source
	c.Doc.Walk(func(n ast.Node) ast.WalkStatus {
		bq, ok := n.(*ast.Blockquote)
		if !ok {
			return ast.WalkContinue
		}
		off, ok := c.Doc.Offset(bq)
		if !ok {
			return ast.WalkContinue
		}
		line := c.Doc.Line(c.Doc.LineOf(off))
		gt := strings.LastIndexByte(string(src[line.Start:off]), '>')
		if gt < 0 {
			return ast.WalkContinue
		}
		gt += line.Start
		gap := off - gt - 1
		switch {
		case gap == 0:
			c.Reportf(gt, "Add 1 space between blockquote and content")
		case gap > 1:
			c.Reportf(gt, "Remove %d %s between blockquote and content", gap-1, plural(gap-1, "space"))
		}
		return ast.WalkContinue
	})
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
