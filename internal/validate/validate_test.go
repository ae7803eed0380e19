package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/diag"
)

type fakeProcessor struct {
	diags []diag.Diagnostic
	err   error
	panic any
	calls int
}

func (f *fakeProcessor) Process(context.Context, string, []byte) ([]diag.Diagnostic, error) {
	f.calls++
	if f.panic != nil {
		panic(f.panic)
	}
	return f.diags, f.err
}

func TestCategoryOf(t *testing.T) {
	cases := map[string]Category{
		"no-heading-increment":        CategoryHeading,
		"ordered-list-marker-value":   CategoryList,
		"table-pipes":                 CategoryTable,
		"checkbox-content-indent":     CategoryTaskList,
		"task-marker":                 CategoryTaskList,
		"strikethrough-marker":        CategoryStrikethrough,
		"no-delete":                   CategoryStrikethrough,
		"no-literal-urls":             CategoryAutolink,
		"no-shortcut-reference-link":  CategoryAutolink,
		"final-newline":               CategoryGeneral,
		"heading-in-list":             CategoryHeading,
		"list-table":                  CategoryList,
		"unknown":                     CategoryGeneral,
		"No-Heading-Case-Sensitivity": CategoryGeneral,
	}
	for id, want := range cases {
		if got := CategoryOf(id); got != want {
			t.Errorf("CategoryOf(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestClassifySeverity(t *testing.T) {
	cases := []struct {
		name string
		d    diag.Diagnostic
		want Severity
	}{
		{"fatal wins over note", diag.Diagnostic{RuleID: "final-newline", Fatal: true, Note: true}, SeverityError},
		{"error rule without fatal", diag.Diagnostic{RuleID: "no-duplicate-headings"}, SeverityError},
		{"undefined references", diag.Diagnostic{RuleID: "no-undefined-references", Note: true}, SeverityError},
		{"unresolved references", diag.Diagnostic{RuleID: "no-unresolved-references"}, SeverityError},
		{"parse error", diag.Diagnostic{RuleID: "parse-error"}, SeverityError},
		{"note", diag.Diagnostic{RuleID: "maximum-line-length", Note: true}, SeverityNote},
		{"default warning", diag.Diagnostic{RuleID: "rule-style"}, SeverityWarning},
	}
	for _, tc := range cases {
		if got := Classify(tc.d).Severity; got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyDefaults(t *testing.T) {
	got := Classify(diag.Diagnostic{Reason: "Invalid UTF-8 sequence in input", Note: true})
	want := ValidationResult{Line: 0, Column: 0, Message: "Invalid UTF-8 sequence in input", RuleID: "unknown", Severity: SeverityNote, Category: CategoryGeneral}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValidateMarkdownDuplicateHeading(t *testing.T) {
	results := ValidateMarkdown(context.Background(), "# Title\n## Title\n")
	var dup *ValidationResult
	for i := range results {
		if results[i].RuleID == "no-duplicate-headings" {
			dup = &results[i]
		}
	}
	if dup == nil {
		t.Fatalf("expected no-duplicate-headings in %+v", results)
	}
	if dup.Category != CategoryHeading || dup.Severity != SeverityError || dup.Line != 2 {
		t.Fatalf("unexpected result %+v", dup)
	}
}

func TestValidateNeverFails(t *testing.T) {
	inputs := []string{"", "\x00\xff\xfe", strings.Repeat("#", 10000), "| a |\n|", "- [", "```\n"}
	for _, in := range inputs {
		for _, r := range ValidateMarkdown(context.Background(), in) {
			if !r.Category.Valid() {
				t.Fatalf("invalid category %q for %q", r.Category, in)
			}
		}
	}
}

func TestProcessorFailureBecomesParseError(t *testing.T) {
	cases := []struct {
		name string
		fake *fakeProcessor
		msg  string
	}{
		{"error", &fakeProcessor{err: errors.New("boom")}, ParseErrorPrefix + "boom"},
		{"empty error", &fakeProcessor{err: errors.New("")}, ParseErrorPrefix + UnknownError},
		{"panic", &fakeProcessor{panic: "kaput"}, ParseErrorPrefix + "kaput"},
		{"panic error", &fakeProcessor{panic: errors.New("bad state")}, ParseErrorPrefix + "bad state"},
	}
	for _, tc := range cases {
		got := New(tc.fake).Validate(context.Background(), "# x\n", DefaultOptions())
		want := []ValidationResult{{
			Message:  tc.msg,
			RuleID:   ParseErrorRule,
			Severity: SeverityError,
			Category: CategoryGeneral,
		}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.name, diff)
		}
		if tc.fake.calls != 1 {
			t.Errorf("%s: processor called %d times", tc.name, tc.fake.calls)
		}
	}
}

func TestCancelledContextBecomesParseError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := ValidateMarkdown(ctx, "# x\n")
	if len(got) != 1 || got[0].RuleID != ParseErrorRule {
		t.Fatalf("expected single parse-error, got %+v", got)
	}
}

func mixed() *fakeProcessor {
	return &fakeProcessor{diags: []diag.Diagnostic{
		{Line: 1, Column: 1, Reason: "h", RuleID: "heading-increment"},
		{Line: 2, Column: 1, Reason: "l", RuleID: "list-item-indent"},
		{Line: 3, Column: 1, Reason: "g", RuleID: "final-newline"},
		{Line: 4, Column: 1, Reason: "h2", RuleID: "no-duplicate-headings"},
	}}
}

func TestOptionsFilter(t *testing.T) {
	v := New(mixed())
	headingOnly := v.Validate(context.Background(), "", Options{Categories: []Category{CategoryHeading}})
	if len(headingOnly) != 2 {
		t.Fatalf("expected 2 heading results, got %+v", headingOnly)
	}
	for _, r := range headingOnly {
		if r.Category != CategoryHeading {
			t.Fatalf("unexpected category %q", r.Category)
		}
	}
	// emission order is preserved
	if headingOnly[0].Line != 1 || headingOnly[1].Line != 4 {
		t.Fatalf("order changed: %+v", headingOnly)
	}

	withGeneral := v.Validate(context.Background(), "", Options{Categories: []Category{CategoryList, CategoryGeneral}})
	if len(withGeneral) != 4 {
		t.Fatalf("general should include all results, got %d", len(withGeneral))
	}
	if none := v.Validate(context.Background(), "", Options{}); len(none) != 0 {
		t.Fatalf("empty selection should keep nothing, got %+v", none)
	}
}

// The run filter treats general as "everything" while ResultsByCategory
// compares literally. Both behaviours are kept on purpose.
func TestGeneralFilterAsymmetry(t *testing.T) {
	all := New(mixed()).Validate(context.Background(), "", Options{Categories: []Category{CategoryGeneral}})
	general := ResultsByCategory(all, CategoryGeneral)
	if len(all) != 4 {
		t.Fatalf("run filter should keep all 4 results, got %d", len(all))
	}
	if len(general) != 1 || general[0].RuleID != "final-newline" {
		t.Fatalf("literal filter should keep only general results, got %+v", general)
	}
}

func TestParseCategories(t *testing.T) {
	got, err := ParseCategories("heading, tasks,link")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Category{CategoryHeading, CategoryTaskList, CategoryAutolink}, got); diff != "" {
		t.Fatal(diff)
	}
	if all, _ := ParseCategories(""); len(all) != 7 {
		t.Fatalf("empty list should mean all, got %v", all)
	}
	if _, err := ParseCategories("heading,colour"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultOptionsIsACopy(t *testing.T) {
	o := DefaultOptions()
	o.Categories[0] = CategoryGeneral
	if DefaultOptions().Categories[0] != CategoryHeading {
		t.Fatal("default options must not be shared")
	}
}
