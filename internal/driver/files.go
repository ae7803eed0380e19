package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// ListMarkdownFiles возвращает отсортированный список всех *.md и
// *.markdown файлов в директории. Скрытые каталоги пропускаются.
func ListMarkdownFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMarkdown(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandTargets turns files and directories into the list of documents to
// lint. Files are kept whatever their extension; directories contribute
// their Markdown files.
func ExpandTargets(targets []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, t := range targets {
		info, err := os.Stat(t)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", t, err)
		}
		var paths []string
		if info.IsDir() {
			if paths, err = ListMarkdownFiles(t); err != nil {
				return nil, fmt.Errorf("walk %s: %w", t, err)
			}
		} else {
			paths = []string{t}
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}
