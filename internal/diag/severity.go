package diag

import (
	"fmt"
	"strings"
)

// Level is the configured strength of a lint rule.
type Level uint8

const (
	// LevelOff disables the rule.
	LevelOff Level = iota
	// LevelNote reports informational findings (Note flag).
	LevelNote
	// LevelWarn is the default for preset rules.
	LevelWarn
	// LevelError marks findings fatal.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNote:
		return "note"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// ParseLevel converts a configuration string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return LevelOff, nil
	case "note", "info":
		return LevelNote, nil
	case "warn", "warning", "1", "on":
		return LevelWarn, nil
	case "error", "2":
		return LevelError, nil
	}
	return LevelOff, fmt.Errorf("invalid rule level %q (expected off|note|warn|error)", s)
}
