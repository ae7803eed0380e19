// Package mdast wraps a goldmark GFM document with the positional data lint
// rules need and goldmark does not keep: a per-line model (code, HTML, table
// and setext underline lines), fence geometry and reference definitions.
package mdast
