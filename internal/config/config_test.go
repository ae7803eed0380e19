package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/diag"
	"gfmlint/internal/processor"
	"gfmlint/internal/validate"
)

func write(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := write(t, root, "")
	nested := filepath.Join(root, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := filepath.Join(nested, "intro.md")
	if err := os.WriteFile(doc, []byte("# x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, start := range []string{nested, doc} {
		got, ok, err := Find(start)
		if err != nil || !ok {
			t.Fatalf("Find(%s) = %q, %v, %v", start, got, ok, err)
		}
		if got != want {
			t.Errorf("Find(%s) = %q, want %q", start, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := write(t, t.TempDir(), `
[lint]
categories = ["heading", "lists"]
language = "ja"
max-diagnostics = 100
max-input-bytes = 1024

[rules.maximum-line-length]
level = "note"
option = 100

[rules.no-duplicate-headings]
level = "off"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Path:           path,
		Categories:     []validate.Category{validate.CategoryHeading, validate.CategoryList},
		Language:       "ja",
		MaxDiagnostics: 100,
		MaxInputBytes:  1024,
		Rules: map[string]processor.RuleSetting{
			"maximum-line-length":   {Level: diag.LevelNote, HasLevel: true, Option: 100, HasOption: true},
			"no-duplicate-headings": {Level: diag.LevelOff, HasLevel: true},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	if got := cfg.ProcessorConfig().MaxDiagnostics; got != 100 {
		t.Errorf("processor max = %d", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, t.TempDir(), "[lint]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(validate.AllCategories(), cfg.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if cfg.Language != "auto" || len(cfg.Rules) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
	}{
		{"unknown rule", "[rules.no-such-rule]\nlevel = \"off\"\n", ErrUnknownRule},
		{"bad level", "[rules.final-newline]\nlevel = \"loud\"\n", ErrInvalidValue},
		{"negative max", "[lint]\nmax-diagnostics = -1\n", ErrInvalidValue},
		{"empty language", "[lint]\nlanguage = \" \"\n", ErrInvalidValue},
		{"unknown key", "[lint]\ncolour = true\n", nil},
		{"bad category", "[lint]\ncategories = [\"images\"]\n", nil},
		{"syntax", "[lint\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Language != "auto" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidateOptionsCopiesCategories(t *testing.T) {
	cfg := Default()
	opts := cfg.ValidateOptions()
	opts.Categories[0] = validate.CategoryGeneral
	if cfg.Categories[0] == validate.CategoryGeneral {
		t.Error("ValidateOptions shares the category slice")
	}
}
