package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", FormatJSON, &buf).Named("driver")
	log.Debug("hidden")
	log.Info("linted", zap.String("path", "a.md"), zap.Int("results", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "linted" || entry["component"] != "driver" || entry["level"] != "info" || entry["path"] != "a.md" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	New("debug", FormatConsole, &buf).Warn("slow file")
	if !strings.Contains(buf.String(), " | WARN | slow file") {
		t.Fatalf("unexpected console output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != zapcore.DebugLevel || ParseLevel("bogus") != zapcore.WarnLevel {
		t.Fatal("unexpected level mapping")
	}
	var buf bytes.Buffer
	New("off", FormatConsole, &buf).Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("off should silence errors, got %q", buf.String())
	}
}
