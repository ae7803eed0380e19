package mdast

import (
	"testing"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"gfmlint/internal/source"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	fs := source.NewFileSet()
	return Parse(fs.Get(fs.AddVirtual("test.md", []byte(src))))
}

func TestLineKinds(t *testing.T) {
	src := "# Title\n\n```go\nx := 1\n```\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n\n<div>\nhi\n</div>\n\n    indented\n"
	doc := parse(t, src)

	cases := []struct {
		line int
		kind LineKind
	}{
		{1, LineHeading},
		{2, LineBlank},
		{3, LineCode},
		{4, LineCode},
		{5, LineCode},
		{7, LineTable},
		{8, LineTable},
		{9, LineTable},
		{11, LineHTML},
		{13, LineHTML},
		{15, LineCode},
	}
	for _, tc := range cases {
		if !doc.Line(tc.line).Is(tc.kind) {
			t.Errorf("line %d (%q): expected kind %b, got %b", tc.line, doc.Line(tc.line).Text, tc.kind, doc.Line(tc.line).Kind)
		}
	}
	if doc.Line(1).Verbatim() || !doc.Line(4).Verbatim() {
		t.Fatal("unexpected verbatim classification")
	}
}

func TestFenceGeometry(t *testing.T) {
	doc := parse(t, "text\n\n~~~~ sh\necho\n~~~~\n\n```\n```\n")
	if len(doc.Fences) != 2 {
		t.Fatalf("expected 2 fences, got %d", len(doc.Fences))
	}
	f := doc.Fences[0]
	if f.Open != 3 || f.Close != 5 || f.Marker != '~' || f.Width != 4 || f.Info != "sh" {
		t.Fatalf("unexpected first fence %+v", f)
	}
	empty := doc.Fences[1]
	if empty.Open != 7 || empty.Close != 8 || empty.Info != "" {
		t.Fatalf("unexpected empty fence %+v", empty)
	}
	if off, ok := doc.Offset(f.Node); !ok || doc.LineOf(off) != 3 {
		t.Fatalf("fence offset should resolve to line 3, got %d (%v)", doc.LineOf(off), ok)
	}
}

func TestUnclosedFenceMarksToEnd(t *testing.T) {
	doc := parse(t, "```\na\nb\n")
	if len(doc.Fences) != 1 || doc.Fences[0].Close != 0 {
		t.Fatalf("expected one unclosed fence, got %+v", doc.Fences)
	}
	if !doc.Line(3).Is(LineCode) {
		t.Fatal("content of an unclosed fence is code")
	}
}

func TestHeadingInfo(t *testing.T) {
	doc := parse(t, "Title\n=====\n\n## Sub ##\n\n> ### Quoted\n")
	var infos []HeadingInfo
	var texts []string
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		if h, ok := n.(*ast.Heading); ok {
			info, ok := doc.Heading(h)
			if !ok {
				t.Fatalf("heading %q not located", doc.Text(h))
			}
			infos = append(infos, info)
			texts = append(texts, doc.Text(h))
		}
		return ast.WalkContinue
	})
	if len(infos) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(infos))
	}
	if infos[0].Style != StyleSetext || infos[0].Line != 1 || !doc.Line(2).Is(LineSetext) {
		t.Fatalf("unexpected setext heading %+v", infos[0])
	}
	if infos[1].Style != StyleATXClosed || infos[1].Line != 4 || doc.Source[infos[1].Offset] != '#' {
		t.Fatalf("unexpected closed heading %+v", infos[1])
	}
	if infos[2].Style != StyleATX || infos[2].Line != 6 || infos[2].Offset != doc.Line(6).Start+2 {
		t.Fatalf("unexpected quoted heading %+v", infos[2])
	}
	if texts[1] != "Sub" || texts[2] != "Quoted" {
		t.Fatalf("unexpected heading texts %q", texts)
	}
}

func TestReferences(t *testing.T) {
	doc := parse(t, "See [docs][Guide].\n\n[guide]: https://example.com\n")
	if !doc.HasReference("GUIDE") || !doc.HasReference(" guide ") {
		t.Fatal("reference labels should match case-insensitively")
	}
	if doc.HasReference("missing") {
		t.Fatal("unexpected reference")
	}
}

func TestAutoLinkOffsetAndTask(t *testing.T) {
	doc := parse(t, "- [x] visit https://example.com now\n")
	var link *ast.AutoLink
	var box *extast.TaskCheckBox
	doc.Walk(func(n ast.Node) ast.WalkStatus {
		switch v := n.(type) {
		case *ast.AutoLink:
			link = v
		case *ast.ListItem:
			box, _ = IsTask(v)
		}
		return ast.WalkContinue
	})
	if link == nil || box == nil {
		t.Fatalf("expected autolink and checkbox, got %v %v", link, box)
	}
	off, ok := doc.Offset(link)
	if !ok || off != 12 {
		t.Fatalf("expected autolink at 12, got %d (%v)", off, ok)
	}
	if !box.IsChecked {
		t.Fatal("expected checked task")
	}
}
