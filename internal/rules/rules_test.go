package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/diag"
	"gfmlint/internal/fix"
	"gfmlint/internal/mdast"
	"gfmlint/internal/source"
)

type finding struct {
	Line, Column int
	Reason       string
}

func run(t *testing.T, id, path, src string) []finding {
	t.Helper()
	rule, ok := Lookup(id)
	if !ok {
		t.Fatalf("unknown rule %q", id)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(src)))
	bag := diag.NewBag(0)
	rule.Check(NewContext(mdast.Parse(file), path, &rule, rule.Level, rule.Option, diag.BagReporter{Bag: bag, File: file}))
	var out []finding
	for _, d := range bag.Items() {
		if d.RuleID != id {
			t.Fatalf("diagnostic carries rule %q, want %q", d.RuleID, id)
		}
		out = append(out, finding{d.Line, d.Column, d.Reason})
	}
	return out
}

func TestRules(t *testing.T) {
	cases := []struct {
		rule string
		path string
		src  string
		want []finding
	}{
		{"file-extension", "notes.markdown", "x\n", []finding{{0, 0, "Incorrect extension: use `md`"}}},
		{"file-extension", "-", "x\n", nil},
		{"no-file-name-mixed-case", "Readme.md", "x\n", []finding{{0, 0, "Do not mix casing in file names"}}},
		{"no-file-name-irregular-characters", "my_file.md", "x\n", []finding{{0, 0, "Do not use `_` in a file name"}}},
		{"no-file-name-consecutive-dashes", "a--b.md", "x\n", []finding{{0, 0, "Do not use consecutive dashes in a file name"}}},
		{"no-file-name-outer-dashes", "-draft.md", "x\n", []finding{{0, 0, "Do not use initial or final dashes in a file name"}}},
		{"no-file-name-articles", "the-guide.md", "x\n", []finding{{0, 0, "Do not start file names with `the`"}}},

		{"heading-style", "", "Title\n=====\n\n## Ok\n", []finding{{1, 1, "Headings should use atx"}}},
		{"heading-increment", "", "# A\n\n### C\n", []finding{{3, 1, "Unexpected heading rank `3`, expected rank `2`"}}},
		{"no-duplicate-headings", "", "# Title\n## Title\n", []finding{{2, 1, "Unexpected heading with equivalent text, expected unique headings"}}},
		{"no-duplicate-headings", "", "# Café\n\n## CAFÉ\n", []finding{{3, 1, "Unexpected heading with equivalent text, expected unique headings"}}},
		{"no-multiple-toplevel-headings", "", "# A\n\n# B\n", []finding{{3, 1, "Unexpected duplicate toplevel heading, exected a single heading with rank `1`"}}},
		{"no-heading-punctuation", "", "# Hello!\n", []finding{{1, 1, "Unexpected character `!` at end of heading, remove it"}}},
		{"no-missing-space-atx", "", "#Title\n", []finding{{1, 1, "Heading should have a space after the hash signs"}}},
		{"no-emphasis-as-heading", "", "*Intro*\n\nText.\n", []finding{{1, 1, "Don’t use emphasis to introduce a section, use a heading"}}},

		{"unordered-list-marker-style", "", "* a\n* b\n", []finding{{1, 1, "List item marker should be a hyphen"}, {2, 1, "List item marker should be a hyphen"}}},
		{"ordered-list-marker-style", "", "1) a\n", []finding{{1, 1, "Marker style should be `.`"}}},
		{"ordered-list-marker-value", "", "2. a\n3. b\n", []finding{{1, 1, "Ordered list should start with 1"}, {2, 1, "Marker should be `1`, was `3`"}}},
		{"list-item-indent", "", "-   a\n", []finding{{1, 2, "Incorrect list-item indent: remove 2 spaces"}}},
		{"list-marker-space", "", "Text\n\n-item\n", []finding{{3, 1, "Unordered list item marker should be followed by a space"}}},
		{"list-marker-space", "", "Text\n\n1.Item\n", []finding{{3, 1, "Ordered list item marker should be followed by a space"}}},

		{"table-pipes", "", "a | b\n--- | ---\n", []finding{
			{1, 1, "Missing initial pipe in table fence"}, {1, 6, "Missing final pipe in table fence"},
			{2, 1, "Missing initial pipe in table fence"}, {2, 10, "Missing final pipe in table fence"},
		}},
		{"no-table-indentation", "", "  | a |\n  | --- |\n", []finding{{1, 1, "Do not indent table rows"}, {2, 1, "Do not indent table rows"}}},
		{"table-cell-padding", "", "|a | b|\n| --- | --- |\n", []finding{{1, 2, "Cell should be padded"}, {1, 7, "Cell should be padded"}}},
		{"table-delimiter-length", "", "| a | b |\n| - | --- |\n", []finding{{2, 3, "Table separator row should have at least 3 dashes in each cell"}}},

		{"checkbox-character-style", "", "- [X] done\n", []finding{{1, 3, "Checkbox marker should be either [ ] or [x]"}}},
		{"checkbox-content-indent", "", "- [x]   done\n", []finding{{1, 7, "Checkbox should be followed by a single space, remove 2"}}},

		{"strikethrough-marker", "", "a ~b~ c\n", []finding{{1, 3, "Unexpected strikethrough marker `~`, expected `~~`"}}},

		{"no-literal-urls", "", "See https://example.com and <https://example.org>.\n", []finding{{1, 5, "Don’t use literal URLs without angle brackets"}}},
		{"no-shortcut-reference-link", "", "[docs]\n\n[docs]: https://example.com\n", []finding{{1, 1, "Use the trailing `[]` on reference links"}}},
		{"no-empty-url", "", "[a]()\n", []finding{{1, 1, "Link should have a destination"}}},
		{"no-empty-link-text", "", "x [](https://example.com)\n", []finding{{1, 3, "Link text should not be empty"}}},
		{"no-undefined-references", "", "[a][missing] and `[b][c]`\n", []finding{{1, 1, "Found reference to undefined definition"}}},

		{"no-consecutive-blank-lines", "", "a\n\n\n\nb\n", []finding{{3, 1, "Remove 2 lines before node"}}},
		{"no-trailing-spaces", "", "a \nb\n", []finding{{1, 2, "Remove trailing whitespace"}}},
		{"hard-break-spaces", "", "a   \nb\n", []finding{{1, 2, "Use two spaces for hard line breaks"}}},
		{"final-newline", "", "a", []finding{{1, 2, "Missing newline character at end of file"}}},
		{"no-missing-blank-lines", "", "# A\ntext\n", []finding{{2, 1, "Missing blank line before block node"}}},
		{"code-block-style", "", "a\n\n    code\n", []finding{{3, 1, "Code blocks should be fenced"}}},
		{"fenced-code-flag", "", "```\nx\n```\n", []finding{{1, 1, "Missing code language flag"}}},
		{"fenced-code-marker", "", "~~~js\nx\n~~~\n", []finding{{1, 1, "Fenced code should use ``` as a marker"}}},
		{"rule-style", "", "a\n\n***\n\n---\n", []finding{{3, 1, "Rules should use `---`"}}},
		{"emphasis-marker", "", "a _b_ c\n", []finding{{1, 3, "Emphasis should use `*` as a marker"}}},
		{"strong-marker", "", "a __b__ c\n", []finding{{1, 3, "Strong should use `*` as a marker"}}},
		{"no-inline-padding", "", "[ a ](https://example.com)\n", []finding{{1, 1, "Don’t pad `link` with inner spaces"}}},
		{"no-shell-dollars", "", "```sh\n$ ls\n$ pwd\n```\n", []finding{{1, 1, "Do not use dollar signs before shell commands"}}},
		{"blockquote-indentation", "", ">  quote\n", []finding{{1, 1, "Remove 1 space between blockquote and content"}}},
	}
	for _, tc := range cases {
		path := tc.path
		if path == "" {
			path = "example.md"
		}
		got := run(t, tc.rule, path, tc.src)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s on %q (-want +got):\n%s", tc.rule, tc.src, diff)
		}
	}
}

func TestCleanDocumentPassesEveryRule(t *testing.T) {
	src := "# Guide\n\n## Setup\n\n- one\n- two\n\n1. first\n1. second\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n\n- [ ] todo\n- [x] done\n\n~~old~~ *new* **bold**\n\n```sh\nmake\n```\n\n---\n\nSee <https://example.com> and [docs][ref].\n\n[ref]: https://example.com\n"
	for _, rule := range Preset() {
		if got := run(t, rule.ID, "guide.md", src); len(got) != 0 {
			t.Errorf("%s: unexpected findings %+v", rule.ID, got)
		}
	}
}

func TestFixableRulesAttachEdits(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("example.md", []byte("* a  \n")))
	doc := mdast.Parse(file)
	for _, id := range []string{"unordered-list-marker-style", "no-trailing-spaces"} {
		rule, _ := Lookup(id)
		if !rule.Fixable {
			t.Fatalf("%s should be fixable", id)
		}
		bag := diag.NewBag(0)
		rule.Check(NewContext(doc, "example.md", &rule, diag.LevelWarn, rule.Option, diag.BagReporter{Bag: bag, File: file}))
		if bag.Len() != 1 || !bag.Items()[0].Fixable() {
			t.Fatalf("%s: expected one fixable diagnostic, got %+v", id, bag.Items())
		}
	}
}

func TestFixesRewriteDocument(t *testing.T) {
	cases := []struct {
		rule, src, want string
	}{
		{"unordered-list-marker-style", "* a\n", "- a\n"},
		{"checkbox-character-style", "- [X] done\n", "- [x] done\n"},
		{"no-consecutive-blank-lines", "a\n\n\n\nb\n", "a\n\nb\n"},
		{"no-trailing-spaces", "a  \nb\t\n", "a\nb\n"},
		{"final-newline", "a", "a\n"},
		{"no-literal-urls", "see https://x.io now\n", "see <https://x.io> now\n"},
	}
	for _, tc := range cases {
		rule, _ := Lookup(tc.rule)
		if !rule.Fixable {
			t.Errorf("%s should be fixable", tc.rule)
		}
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("example.md", []byte(tc.src)))
		bag := diag.NewBag(0)
		rule.Check(NewContext(mdast.Parse(file), "example.md", &rule, rule.Level, rule.Option, diag.BagReporter{Bag: bag, File: file}))
		out, _, err := fix.Apply(file.Content, bag.Items(), fix.ApplyOptions{})
		if err != nil {
			t.Errorf("%s: %v", tc.rule, err)
			continue
		}
		if string(out) != tc.want {
			t.Errorf("%s: got %q, want %q", tc.rule, out, tc.want)
		}
	}
}

func TestPresetIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Preset() {
		if seen[r.ID] {
			t.Fatalf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if r.Check == nil {
			t.Fatalf("rule %q has no check", r.ID)
		}
	}
}
