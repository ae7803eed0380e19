package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/diagfmt"
	"gfmlint/internal/rules"
	"gfmlint/internal/validate"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLintJSONReportsDuplicateHeading(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# Title\n## Title\n")

	out, _, err := execute(t, "", "lint", "--format", "json", "--ui", "off", "--color", "off", "--path-mode", "basename", "--lang", "ja", dir)
	if !errors.Is(err, errProblemsFound) {
		t.Fatalf("expected errProblemsFound, got %v", err)
	}
	var got diagfmt.Output
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	file, ok := got.Files["a.md"]
	if !ok {
		t.Fatalf("a.md missing from %v", got.Files)
	}
	found := false
	for _, r := range file.Results {
		if r.RuleID == "no-duplicate-headings" {
			found = true
			if r.LocalizedMessage != "同じテキストの見出しが重複しています。見出しは一意である必要があります" {
				t.Fatalf("unexpected localized message %q", r.LocalizedMessage)
			}
		}
	}
	if !found || file.Count != len(file.Results) {
		t.Fatalf("unexpected file output %+v", file)
	}
}

func TestLintCategoriesFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.md", "# Title\n## Title\n")

	out, _, err := execute(t, "", "lint", "--format", "short", "--categories", "table", path)
	if err != nil {
		t.Fatalf("expected a clean run, got %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no results, got:\n%s", out)
	}
}

func TestLintStdinFixPrintsSource(t *testing.T) {
	out, _, err := execute(t, "* a  \n", "lint", "--fix", "-")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if out != "- a\n" {
		t.Fatalf("unexpected fixed output %q", out)
	}
}

func TestLintRejectsConflictingFlags(t *testing.T) {
	_, _, err := execute(t, "", "lint", "--no-warnings", "--warnings-as-errors", "-")
	if err == nil || errors.Is(err, errProblemsFound) {
		t.Fatalf("expected a flag error, got %v", err)
	}
	_, _, err = execute(t, "", "lint", "--format", "xml", "-")
	if err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestExitStatus(t *testing.T) {
	warn := validate.ValidationResult{RuleID: "r", Severity: validate.SeverityWarning, Category: validate.CategoryGeneral}
	fatal := validate.ValidationResult{RuleID: "r", Severity: validate.SeverityError, Category: validate.CategoryGeneral}

	onlyWarn := []diagfmt.FileReport{{Path: "a.md", Results: []validate.ValidationResult{warn}}}
	if err := exitStatus(onlyWarn, lintFlags{}); err != nil {
		t.Fatalf("warnings alone should pass, got %v", err)
	}
	if err := exitStatus(onlyWarn, lintFlags{warningsAsErrors: true}); !errors.Is(err, errProblemsFound) {
		t.Fatalf("warnings-as-errors should fail, got %v", err)
	}
	withError := []diagfmt.FileReport{{Path: "a.md"}, {Path: "b.md", Results: []validate.ValidationResult{warn, fatal}}}
	if err := exitStatus(withError, lintFlags{}); !errors.Is(err, errProblemsFound) {
		t.Fatalf("errors should fail, got %v", err)
	}
	if got := dropWarnings(withError[1].Results); len(got) != 1 || got[0].Severity != validate.SeverityError {
		t.Fatalf("dropWarnings kept %+v", got)
	}
}

func TestReadModes(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected invalid ui mode")
	}
	if mode, err := readUIMode(" ON "); err != nil || mode != uiModeOn {
		t.Fatalf("got %q, %v", mode, err)
	}
	if _, err := readColorMode("purple", nil); err == nil {
		t.Fatalf("expected invalid color mode")
	}
	if on, err := readColorMode("auto", nil); err != nil || on {
		t.Fatalf("auto without a terminal should be off, got %v, %v", on, err)
	}
}

func TestRulesJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeDoc(t, dir, ".gfmlint.toml", "[rules.maximum-line-length]\nlevel = \"off\"\n")

	out, _, err := execute(t, "", "--config", cfg, "rules", "--format", "json")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	var infos []ruleInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != len(rules.Preset()) {
		t.Fatalf("expected %d rules, got %d", len(rules.Preset()), len(infos))
	}
	byID := make(map[string]ruleInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}
	want := ruleInfo{ID: "maximum-line-length", Category: validate.CategoryGeneral, Level: "off", Option: 80, Summary: "lines should be short"}
	if diff := cmp.Diff(want, byID["maximum-line-length"]); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !byID["no-literal-urls"].Fixable {
		t.Fatalf("no-literal-urls should be fixable")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "gfmlint" || payload.Version == "" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestLintWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.md", "# Title\n")
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	_, _, err := execute(t, "", "--cpu-profile", cpu, "--mem-profile", mem, "lint", "--format", "short", "--ui", "off", "--categories", "table", path)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("profile %s not written: %v", p, err)
		}
	}
}
