package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"gfmlint/internal/fix"
	"gfmlint/internal/processor"
	"gfmlint/internal/source"
	"gfmlint/internal/testkit"
	"gfmlint/internal/validate"
)

// validateTimeout is the maximum time allowed for one document.
// Anything slower points at a runaway rule.
const validateTimeout = 5 * time.Second

func FuzzValidateMarkdown(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		done := make(chan []validate.ValidationResult, 1)
		go func() {
			done <- validate.ValidateMarkdown(ctx, string(input), validate.Options{Categories: validate.AllCategories()})
		}()

		var results []validate.ValidationResult
		select {
		case results = <-done:
		case <-ctx.Done():
			t.Fatalf("validation hang detected: took longer than %v\ninput (%d bytes): %q",
				validateTimeout, len(input), truncateForLog(input, 200))
		}

		for i, r := range results {
			if !r.Category.Valid() {
				t.Fatalf("result %d: invalid category %q", i, r.Category)
			}
			if r.Line < 0 || r.Column < 0 {
				t.Fatalf("result %d: negative position %d:%d", i, r.Line, r.Column)
			}
			if r.Message == "" {
				t.Fatalf("result %d: empty message", i)
			}
			if r.RuleID == validate.ParseErrorRule {
				t.Fatalf("document failed to process: %s", r.Message)
			}
		}
	})
}

func FuzzProcessorInvariants(f *testing.F) {
	addCorpusSeeds(f)
	p := processor.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()

		diags, err := p.Process(ctx, "fuzz.md", input)
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.md", input))
		if err := testkit.CheckDiagnosticInvariants(file, diags); err != nil {
			t.Fatalf("invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}

		fixed, _, err := fix.Apply(file.Content, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
		if err != nil && !errors.Is(err, fix.ErrNoFixes) {
			t.Fatalf("apply fixes: %v", err)
		}
		if _, err := p.Process(ctx, "fuzz.md", fixed); err != nil {
			t.Fatalf("process fixed output: %v\nfixed: %q", err, truncateForLog(fixed, 200))
		}
	})
}
