package rules

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	irregularFileChar = regexp.MustCompile(`[^.a-zA-Z\d-]`)
	fileNameArticle   = regexp.MustCompile(`(?i)^(the|teh|an?)\b`)
)

// fileStem returns the base name without extension; ok is false for
// anonymous input (stdin, unsaved buffers).
func fileStem(c *Context) (string, string, bool) {
	if c.Path == "" || c.Path == "-" {
		return "", "", false
	}
	base := filepath.Base(c.Path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), strings.TrimPrefix(ext, "."), true
}

func checkFileExtension(c *Context) {
	_, ext, ok := fileStem(c)
	if !ok {
		return
	}
	switch ext {
	case "md":
	case "":
		c.ReportFile("Missing file extension `md`")
	default:
		c.ReportFile("Incorrect extension: use `md`")
	}
}

func checkFileNameMixedCase(c *Context) {
	stem, _, ok := fileStem(c)
	if !ok {
		return
	}
	if strings.ToLower(stem) != stem && strings.ToUpper(stem) != stem {
		c.ReportFile("Do not mix casing in file names")
	}
}

func checkFileNameIrregular(c *Context) {
	if !c.hasName() {
		return
	}
	base := filepath.Base(c.Path)
	if m := irregularFileChar.FindString(base); m != "" {
		c.ReportFile("Do not use `" + m + "` in a file name")
	}
}

func checkFileNameConsecutiveDashes(c *Context) {
	stem, _, ok := fileStem(c)
	if ok && strings.Contains(stem, "--") {
		c.ReportFile("Do not use consecutive dashes in a file name")
	}
}

func checkFileNameOuterDashes(c *Context) {
	stem, _, ok := fileStem(c)
	if ok && (strings.HasPrefix(stem, "-") || strings.HasSuffix(stem, "-")) {
		c.ReportFile("Do not use initial or final dashes in a file name")
	}
}

func checkFileNameArticles(c *Context) {
	stem, _, ok := fileStem(c)
	if !ok {
		return
	}
	if m := fileNameArticle.FindString(stem); m != "" {
		c.ReportFile("Do not start file names with `" + m + "`")
	}
}

func (c *Context) hasName() bool {
	return c.Path != "" && c.Path != "-"
}
