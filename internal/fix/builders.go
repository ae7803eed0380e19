package fix

import (
	"gfmlint/internal/diag"
	"gfmlint/internal/source"
)

// Insert creates an edit inserting text at at.Start.
func Insert(at source.Span, text string) diag.FixEdit {
	return diag.FixEdit{
		Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
		NewText: text,
	}
}

// Delete removes text covered by span. expect guards the removed bytes.
func Delete(span source.Span, expect string) diag.FixEdit {
	return diag.FixEdit{Span: span, OldText: expect}
}

// Replace replaces text covered by span with newText.
func Replace(span source.Span, newText, expect string) diag.FixEdit {
	if span.Start == span.End {
		return Insert(span, newText)
	}
	if newText == "" {
		return Delete(span, expect)
	}
	return diag.FixEdit{Span: span, NewText: newText, OldText: expect}
}

// Wrap surrounds span with prefix and suffix insertions.
func Wrap(span source.Span, prefix, suffix string) []diag.FixEdit {
	return []diag.FixEdit{
		{
			Span:    source.Span{File: span.File, Start: span.Start, End: span.Start},
			NewText: prefix,
		},
		{
			Span:    source.Span{File: span.File, Start: span.End, End: span.End},
			NewText: suffix,
		},
	}
}
