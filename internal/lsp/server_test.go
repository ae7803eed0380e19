package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

func newTestServer(t *testing.T, out io.Writer, opts ServerOptions) *Server {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = time.Hour
	}
	server := NewServer(bytes.NewReader(nil), out, opts)
	t.Cleanup(server.stopDiagnostics)
	return server
}

func call(t *testing.T, server *Server, method string, id int, params any) {
	t.Helper()
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	msg := &rpcMessage{JSONRPC: "2.0", Method: method, Params: payload}
	if id > 0 {
		msg.ID = json.RawMessage(itoa(id))
	}
	if err := server.handleMessage(msg); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// flush runs the pending debounced analysis synchronously.
func flush(server *Server) {
	server.mu.Lock()
	if server.debounceTimer != nil {
		server.debounceTimer.Stop()
	}
	server.mu.Unlock()
	server.runDiagnostics(atomic.LoadUint64(&server.latestSeq))
}

func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func publishes(t *testing.T, msgs []rpcMessage) []publishDiagnosticsParams {
	t.Helper()
	var out []publishDiagnosticsParams
	for _, msg := range msgs {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params publishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("decode publish: %v", err)
		}
		out = append(out, params)
	}
	return out
}

func stubAnalyze(results ...validate.ValidationResult) AnalyzeFunc {
	return func(context.Context, string, string, validate.Options) []validate.ValidationResult {
		return results
	}
}

func TestPublishDiagnosticsMapping(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "doc.md"))
	var out bytes.Buffer
	server := newTestServer(t, &out, ServerOptions{
		Locale: locale.Japanese,
		Analyze: stubAnalyze(
			validate.ValidationResult{Line: 2, Column: 3, Message: "Heading levels should increment by one level at a time", RuleID: "heading-increment", Severity: validate.SeverityWarning, Category: validate.CategoryHeading},
			validate.ValidationResult{Line: 0, Column: 0, Message: "something odd", RuleID: "unknown", Severity: validate.SeverityNote, Category: validate.CategoryGeneral},
		),
	})

	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: "markdown", Version: 3, Text: "# a\n😀xy\n"},
	})
	flush(server)

	got := publishes(t, readAll(t, &out))
	version := 3
	want := []publishDiagnosticsParams{{
		URI:     uri,
		Version: &version,
		Diagnostics: []lspDiagnostic{
			{
				Range:    lspRange{Start: position{Line: 1, Character: 3}, End: position{Line: 1, Character: 4}},
				Severity: 2,
				Code:     "heading-increment",
				Source:   "gfmlint",
				Message:  "見出しレベルは一度に1レベルずつ増やす必要があります",
				Data:     diagnosticData{Category: validate.CategoryHeading, Original: "Heading levels should increment by one level at a time"},
			},
			{
				Severity: 3,
				Code:     "unknown",
				Source:   "gfmlint",
				Message:  "something odd",
				Data:     diagnosticData{Category: validate.CategoryGeneral, Original: "something odd"},
			},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("publish mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultAnalyzerPublishesDuplicateHeading(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "dup.md"))
	var out bytes.Buffer
	server := newTestServer(t, &out, ServerOptions{Locale: locale.Japanese})

	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "# Title\n## Title\n"},
	})
	flush(server)

	pubs := publishes(t, readAll(t, &out))
	if len(pubs) != 1 {
		t.Fatalf("expected one publish, got %d", len(pubs))
	}
	found := false
	for _, d := range pubs[0].Diagnostics {
		if d.Code == "no-duplicate-headings" {
			found = true
			if d.Severity != 1 || d.Range.Start.Line != 1 {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
			if d.Message != "同じテキストの見出しが重複しています。見出しは一意である必要があります" {
				t.Fatalf("unexpected message %q", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("no-duplicate-headings missing from %+v", pubs[0].Diagnostics)
	}
}

func TestStaleAnalysisIsDiscarded(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "doc.md"))
	var out bytes.Buffer
	var server *Server
	calls := 0
	server = newTestServer(t, &out, ServerOptions{
		Analyze: func(ctx context.Context, path, text string, opts validate.Options) []validate.ValidationResult {
			calls++
			if calls == 1 {
				call(t, server, "textDocument/didChange", 0, didChangeTextDocumentParams{
					TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
					ContentChanges: []textDocumentContentChangeEvent{{Text: "changed\n"}},
				})
			}
			return []validate.ValidationResult{{Line: 1, Column: 1, Message: text, RuleID: "r", Severity: validate.SeverityNote, Category: validate.CategoryGeneral}}
		},
	})

	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "first\n"},
	})
	flush(server)
	if pubs := publishes(t, readAll(t, &out)); len(pubs) != 0 {
		t.Fatalf("stale results were published: %+v", pubs)
	}

	flush(server)
	pubs := publishes(t, readAll(t, &out))
	if len(pubs) != 1 || pubs[0].Diagnostics[0].Data.Original != "changed\n" {
		t.Fatalf("expected results for the latest text, got %+v", pubs)
	}
	if *pubs[0].Version != 2 {
		t.Fatalf("expected version 2, got %d", *pubs[0].Version)
	}
}

func TestIncrementalChangeAndClose(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "doc.md"))
	var out bytes.Buffer
	var seen string
	server := newTestServer(t, &out, ServerOptions{
		Analyze: func(ctx context.Context, path, text string, opts validate.Options) []validate.ValidationResult {
			seen = text
			return []validate.ValidationResult{{Line: 1, Column: 1, Message: "m", RuleID: "r", Severity: validate.SeverityError, Category: validate.CategoryGeneral}}
		},
	})

	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "one\ntwo\n"},
	})
	call(t, server, "textDocument/didChange", 0, didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 3}},
			Text:  "2",
		}},
	})
	flush(server)
	if seen != "one\n2\n" {
		t.Fatalf("unexpected analysed text %q", seen)
	}

	call(t, server, "textDocument/didClose", 0, didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: uri}})
	pubs := publishes(t, readAll(t, &out))
	if len(pubs) != 2 {
		t.Fatalf("expected publish and clear, got %d", len(pubs))
	}
	if len(pubs[1].Diagnostics) != 0 {
		t.Fatalf("close should clear diagnostics, got %+v", pubs[1].Diagnostics)
	}
}

func TestDidChangeReplacesSurrogatePair(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "doc.md"))
	var out bytes.Buffer
	var seen string
	server := newTestServer(t, &out, ServerOptions{
		Analyze: func(ctx context.Context, path, text string, opts validate.Options) []validate.ValidationResult {
			seen = text
			return nil
		},
	})

	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "# 😀 title\r\nnext\n"},
	})
	call(t, server, "textDocument/didChange", 0, didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{
			{
				Range: &lspRange{Start: position{Line: 0, Character: 2}, End: position{Line: 0, Character: 4}},
				Text:  "日本",
			},
			{
				Range: &lspRange{Start: position{Line: 0, Character: 99}, End: position{Line: 1, Character: 0}},
				Text:  "\n",
			},
		},
	})
	flush(server)
	if seen != "# 日本 title\nnext\n" {
		t.Fatalf("unexpected analysed text %q", seen)
	}
}

func TestByteOffset(t *testing.T) {
	const text = "a😀b\r\ncd"
	tests := []struct {
		pos  position
		want int
	}{
		{position{Line: 0, Character: 0}, 0},
		{position{Line: 0, Character: 1}, 1},
		{position{Line: 0, Character: 2}, 1}, // inside the pair
		{position{Line: 0, Character: 3}, 5},
		{position{Line: 0, Character: 9}, 6}, // clamps before \r
		{position{Line: 1, Character: 1}, 9},
		{position{Line: 5, Character: 0}, len(text)},
		{position{Line: -1, Character: 0}, 0},
	}
	for _, tt := range tests {
		if got := byteOffset(text, tt.pos); got != tt.want {
			t.Errorf("byteOffset(%+v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestValidationResultsRequest(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "doc.md"))
	var out bytes.Buffer
	server := newTestServer(t, &out, ServerOptions{
		Analyze: stubAnalyze(
			validate.ValidationResult{Line: 1, Column: 1, Message: "Unexpected heading rank", RuleID: "heading-increment", Severity: validate.SeverityWarning, Category: validate.CategoryHeading},
			validate.ValidationResult{Line: 3, Column: 1, Message: "List item marker should be a hyphen", RuleID: "list-marker", Severity: validate.SeverityWarning, Category: validate.CategoryList},
		),
	})

	call(t, server, "initialize", 1, initializeParams{Locale: "ja-JP"})
	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "# a\n\n* b\n"},
	})
	call(t, server, methodValidationResults, 2, validationResultsParams{URI: uri, Category: "list"})

	var resp *rpcMessage
	msgs := readAll(t, &out)
	for i := range msgs {
		if string(msgs[i].ID) == "2" {
			resp = &msgs[i]
		}
	}
	if resp == nil || resp.Error != nil {
		t.Fatalf("expected a successful response, got %+v", resp)
	}
	var got validationResultsResponse
	if err := json.Unmarshal(resp.Result, &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].RuleID != "list-marker" {
		t.Fatalf("unexpected results %+v", got.Results)
	}
	if got.Results[0].LocalizedMessage != "リスト項目マーカーはハイフン(-)を使用してください" {
		t.Fatalf("unexpected localized message %q", got.Results[0].LocalizedMessage)
	}
	wantCounts := map[validate.Category]int{validate.CategoryHeading: 1, validate.CategoryList: 1}
	if diff := cmp.Diff(wantCounts, got.Counts); diff != "" {
		t.Fatalf("counts (-want +got):\n%s", diff)
	}
}

func TestValidationResultsRejectsUnknownCategory(t *testing.T) {
	var out bytes.Buffer
	server := newTestServer(t, &out, ServerOptions{Analyze: stubAnalyze()})
	call(t, server, methodValidationResults, 7, validationResultsParams{URI: "file:///x.md", Category: "bogus"})
	msgs := readAll(t, &out)
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid params error, got %+v", msgs)
	}
}

func TestConfigurationChangesLanguageAndCategories(t *testing.T) {
	var out bytes.Buffer
	var gotOpts validate.Options
	server := newTestServer(t, &out, ServerOptions{
		Analyze: func(ctx context.Context, path, text string, opts validate.Options) []validate.ValidationResult {
			gotOpts = opts
			return nil
		},
	})
	call(t, server, "workspace/didChangeConfiguration", 0, map[string]any{
		"settings": map[string]any{
			"gfmlint": map[string]any{"language": "ja", "categories": []string{"heading", "tables"}},
		},
	})
	if server.localizer() != locale.Japanese {
		t.Fatalf("expected Japanese localizer")
	}
	call(t, server, "textDocument/didOpen", 0, didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: "untitled:Untitled-1", Version: 1, Text: "x"},
	})
	flush(server)
	want := []validate.Category{validate.CategoryHeading, validate.CategoryTable}
	if diff := cmp.Diff(want, gotOpts.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
}

func TestShutdownAndExit(t *testing.T) {
	var out bytes.Buffer
	server := newTestServer(t, &out, ServerOptions{Analyze: stubAnalyze()})
	if err := server.handleMessage(&rpcMessage{Method: "exit"}); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("expected ErrExitWithoutShutdown, got %v", err)
	}
	call(t, server, "shutdown", 1, nil)
	if err := server.handleMessage(&rpcMessage{Method: "exit"}); !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
}

func TestRunStopsOnExit(t *testing.T) {
	var in bytes.Buffer
	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		if err := writeMessage(&in, []byte(msg)); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	server := NewServer(&in, &out, ServerOptions{Analyze: stubAnalyze(), Version: "1.2.3"})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
	msgs := readAll(t, &out)
	if len(msgs) != 2 {
		t.Fatalf("expected two responses, got %d", len(msgs))
	}
	var initRes initializeResult
	if err := json.Unmarshal(msgs[0].Result, &initRes); err != nil {
		t.Fatal(err)
	}
	if initRes.ServerInfo.Name != "gfmlint" || initRes.ServerInfo.Version != "1.2.3" || !initRes.Capabilities.TextDocumentSync.OpenClose {
		t.Fatalf("unexpected initialize result %+v", initRes)
	}
}

func TestRangeForResultUTF16(t *testing.T) {
	list := toLSPDiagnostics("file:///x.md", "a\r\nb𝄞c\n", []validate.ValidationResult{
		{Line: 2, Column: 3, RuleID: "r"},
		{Line: 2, Column: 99, RuleID: "r"},
		{Line: 9, Column: 1, RuleID: "r"},
	}, locale.English)
	want := []lspRange{
		{Start: position{Line: 1, Character: 3}, End: position{Line: 1, Character: 4}},
		{Start: position{Line: 1, Character: 4}, End: position{Line: 1, Character: 4}},
		{Start: position{Line: 1, Character: 4}, End: position{Line: 1, Character: 4}},
	}
	for i, d := range list {
		if diff := cmp.Diff(want[i], d.Range); diff != "" {
			t.Fatalf("range %d (-want +got):\n%s", i, diff)
		}
	}
}
