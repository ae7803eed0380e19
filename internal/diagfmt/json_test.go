package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

func TestJSONShape(t *testing.T) {
	var buf bytes.Buffer
	reports := []FileReport{headingReport(), {Path: "clean.md"}}
	if err := JSON(&buf, reports, locale.Japanese, JSONOpts{}); err != nil {
		t.Fatal(err)
	}

	var raw map[string]map[string]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	file := raw["files"]["README.md"]
	if file["count"] != float64(1) {
		t.Errorf("count = %v", file["count"])
	}
	results := file["results"].([]any)
	got := results[0].(map[string]any)
	want := map[string]any{
		"line":             float64(3),
		"column":           float64(1),
		"message":          "Unexpected heading rank `3`, expected rank `2`",
		"ruleId":           "heading-increment",
		"severity":         "warning",
		"category":         "heading",
		"localizedMessage": "見出しレベルが不適切です",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
	if clean := raw["files"]["clean.md"]; clean["count"] != float64(0) || len(clean["results"].([]any)) != 0 {
		t.Errorf("clean file = %v", clean)
	}
}

func TestJSONMax(t *testing.T) {
	rep := headingReport()
	rep.Results = append(rep.Results, rep.Results[0], rep.Results[0])
	out := BuildOutput([]FileReport{rep}, nil, JSONOpts{Max: 2})
	if got := out.Files["README.md"].Count; got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := out.Files["README.md"].Results[0].LocalizedMessage; got != rep.Results[0].Message {
		t.Errorf("english localized = %q", got)
	}
}

func TestSarif(t *testing.T) {
	rep := headingReport()
	rep.Results = append(rep.Results, validate.ValidationResult{
		Message:  validate.ParseErrorPrefix + "x",
		RuleID:   validate.ParseErrorRule,
		Severity: validate.SeverityError,
		Category: validate.CategoryGeneral,
	})
	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolVersion:   "0.1.0",
		RuleSummaries: map[string]string{"heading-increment": "Heading levels increase by one"},
	}
	if err := Sarif(&buf, []FileReport{rep}, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("header = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "gfmlint" {
		t.Errorf("driver = %q", run.Tool.Driver.Name)
	}
	var ids []string
	for _, r := range run.Tool.Driver.Rules {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"heading-increment", "parse-error"}, ids); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}
	if d := run.Tool.Driver.Rules[0].ShortDescription; d == nil || d.Text != "Heading levels increase by one" {
		t.Errorf("short description = %+v", d)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d", len(run.Results))
	}
	first := run.Results[0]
	if first.Level != "warning" || first.Locations[0].PhysicalLocation.Region.StartLine != 3 {
		t.Errorf("first = %+v", first)
	}
	second := run.Results[1]
	if second.Level != "error" || second.RuleIndex != 1 || second.Locations[0].PhysicalLocation.Region != nil {
		t.Errorf("second = %+v", second)
	}
}
