package lsp

import (
	"strings"
	"unicode/utf8"

	"gfmlint/internal/source"
)

// utf16Len counts the UTF-16 code units of one rune.
func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// rangeForResult converts a 1-based line and rune column into an LSP range
// covering one character. Results without a position map to the document
// start; lines and columns past the end clamp to it.
func rangeForResult(file *source.File, line, col int) lspRange {
	if file == nil || line <= 0 {
		return lspRange{}
	}
	if n := file.LineCount(); line > n {
		line = max(n, 1)
		col = int(^uint(0) >> 1)
	}
	text := file.Content[file.LineStart(line):file.LineEnd(line)]

	units, i := 0, 0
	for r := 1; r < col && i < len(text); r++ {
		ch, size := utf8.DecodeRune(text[i:])
		units += utf16Len(ch)
		i += size
	}
	start := position{Line: line - 1, Character: units}
	end := start
	if i < len(text) {
		ch, _ := utf8.DecodeRune(text[i:])
		end.Character += utf16Len(ch)
	}
	return lspRange{Start: start, End: end}
}

// applyContentChanges folds didChange events into text in order. A change
// without a range replaces the whole buffer.
func applyContentChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := byteOffset(text, change.Range.Start)
		end := max(byteOffset(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// byteOffset converts an LSP position of the raw buffer into a byte offset.
// Positions past a line end clamp to it, lines past the buffer to its end;
// a character inside a surrogate pair snaps to the start of that rune.
func byteOffset(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	off := 0
	for range pos.Line {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return len(text)
		}
		off += nl + 1
	}
	for units := 0; off < len(text); {
		ch, size := utf8.DecodeRuneInString(text[off:])
		if ch == '\n' || ch == '\r' || units+utf16Len(ch) > pos.Character {
			break
		}
		units += utf16Len(ch)
		off += size
	}
	return off
}
