package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 256 << 10
)

var markdownSeeds = []string{
	"",
	"# Title\n",
	"# Title\n\n# Title\n",
	"Heading\n=======\n\ntext\n",
	"* a  \n* b\n",
	"- [ ] todo\n- [x] done\n- [-] odd\n",
	"| a | b |\n|---|---|\n| 1 |\n",
	"see http://example.com and www.example.com\n",
	"[link](#missing)\n\n[ref]: http://example.com\n",
	"```\ncode\n```\n",
	"~~~go\nfunc main() {}\n",
	"> quote\n>\n> more\n",
	"1. one\n1. two\n3. three\n",
	"text\t\r\n\r\nmore\r\n",
	"﻿# BOM\n",
	"日本語の見出し\n===\n\n絵文字 😀 `code`\n",
	"<div>\n*raw*\n</div>\n",
	"\n\n\ntext",
	"***\n---\n___\n",
	"[^1]\n\n[^1]: note\n",
	"\xff\xfe broken utf8\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range markdownSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.md файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
