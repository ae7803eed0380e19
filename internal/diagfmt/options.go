package diagfmt

import (
	"gfmlint/internal/source"
	"gfmlint/internal/validate"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode accepts the names printed by String.
func ParsePathMode(s string) (PathMode, bool) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		if m.String() == s {
			return m, true
		}
	}
	return PathModeAuto, false
}

// FileReport is the outcome of linting one document.
type FileReport struct {
	Path    string
	Source  []byte // optional, enables context lines in Pretty
	Results []validate.ValidationResult
	Fixed   int  // edits applied by --fix
	Cached  bool // results came from the disk cache
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color        bool
	Context      int8 // строки контекста перед строкой с ошибкой
	PathMode     PathMode
	BaseDir      string
	Width        int // максимальная ширина сообщения, 0 - не ограничено
	ShowOriginal bool
	ShowCategory bool
	Summary      bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // обрезка вывода на файл
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	RuleSummaries  map[string]string
	PathMode       PathMode
	BaseDir        string
}

func displayPath(path string, mode PathMode, baseDir string) string {
	if path == "" || path == "-" {
		return path
	}
	f := source.File{Path: path}
	return f.FormatPath(mode.String(), baseDir)
}
