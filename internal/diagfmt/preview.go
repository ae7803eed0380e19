package diagfmt

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

type snippetLine struct {
	num  int
	text string
}

// snippet returns up to context lines before line and the line itself.
// Lines are 1-based; a missing line yields nothing.
func snippet(src []byte, line int, context int8) []snippetLine {
	if len(src) == 0 || line < 1 {
		return nil
	}
	lines := bytes.Split(bytes.TrimSuffix(src, []byte("\n")), []byte("\n"))
	if line > len(lines) {
		return nil
	}
	first := max(line-int(context), 1)
	out := make([]snippetLine, 0, line-first+1)
	for n := first; n <= line; n++ {
		out = append(out, snippetLine{num: n, text: expandTabs(string(lines[n-1]))})
	}
	return out
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// caretPad returns the display width of the first col-1 runes of text,
// so wide (CJK) characters shift the caret by two cells.
func caretPad(raw string, col int) int {
	if col <= 1 {
		return 0
	}
	prefix := []rune(raw)
	if col-1 < len(prefix) {
		prefix = prefix[:col-1]
	}
	return runewidth.StringWidth(expandTabs(string(prefix))) + max(col-1-len([]rune(raw)), 0)
}

func rawLine(src []byte, line int) string {
	lines := bytes.Split(src, []byte("\n"))
	if line < 1 || line > len(lines) {
		return ""
	}
	return string(lines[line-1])
}
