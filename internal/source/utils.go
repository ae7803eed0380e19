package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// Normalize strips a UTF-8 BOM and converts CRLF line endings to LF.
// Lone '\r' bytes are kept.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
		flags |= FileHadBOM
	}
	if !slices.Contains(content, '\r') {
		return content, flags
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			flags |= FileNormalizedCRLF
			continue
		}
		out = append(out, content[i])
	}
	return out, flags
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineForOffset returns the 0-based line containing off: the number of
// line feeds strictly before it.
func lineForOffset(lineIdx []uint32, off uint32) int {
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// RelativePath renders path relative to baseDir, or as a cleaned absolute
// path when it lies outside baseDir.
func RelativePath(path, baseDir string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return normalizePath(path)
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return normalizePath(abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs)
	}
	return normalizePath(rel)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
