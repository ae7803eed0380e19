// Package processor turns Markdown text into raw diagnostics: it parses the
// text with goldmark (GFM) and runs the configured lint rules in order.
package processor

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"gfmlint/internal/diag"
	"gfmlint/internal/mdast"
	"gfmlint/internal/observ"
	"gfmlint/internal/rules"
	"gfmlint/internal/source"
)

// DefaultPath is the file name reported to file-name rules when the caller
// does not supply one.
const DefaultPath = "example.md"

// DefaultMaxInputBytes bounds the size of a single document.
const DefaultMaxInputBytes = 4 << 20

var (
	// ErrInputTooLarge is returned for documents above MaxInputBytes.
	ErrInputTooLarge = errors.New("input too large")
	// ErrRulePanic wraps a panic raised inside a rule.
	ErrRulePanic = errors.New("rule failed")
)

// RuleSetting overrides the preset level and option of a rule.
type RuleSetting struct {
	Level     diag.Level
	HasLevel  bool
	Option    int
	HasOption bool
}

// Config configures a Processor.
type Config struct {
	MaxInputBytes  int // <= 0 means DefaultMaxInputBytes
	MaxDiagnostics int // <= 0 means unlimited
	Rules          map[string]RuleSetting
	Timer          *observ.Timer
}

// Processor is safe for concurrent use: every call builds its own state.
type Processor struct {
	cfg   Config
	rules []rules.Rule
}

// New creates a processor running the preset with cfg applied.
func New(cfg Config) *Processor {
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = DefaultMaxInputBytes
	}
	return &Processor{cfg: cfg, rules: rules.Preset()}
}

// Default returns a processor with the plain preset.
func Default() *Processor {
	return New(Config{})
}

// Effective reports the level and option rule id runs with.
func (p *Processor) Effective(rule rules.Rule) (diag.Level, int) {
	level, option := rule.Level, rule.Option
	if s, ok := p.cfg.Rules[rule.ID]; ok {
		if s.HasLevel {
			level = s.Level
		}
		if s.HasOption {
			option = s.Option
		}
	}
	return level, option
}

// Rules returns the preset rules in run order.
func (p *Processor) Rules() []rules.Rule {
	return p.rules
}

// Process parses src and returns the diagnostics of every enabled rule,
// rule by rule, each rule in source order. An empty path is reported as
// DefaultPath.
func (p *Processor) Process(ctx context.Context, path string, src []byte) (out []diag.Diagnostic, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(src) > p.cfg.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(src), p.cfg.MaxInputBytes)
	}
	if path == "" {
		path = DefaultPath
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, src))
	bag := diag.NewBag(p.cfg.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag, File: file}

	if off, ok := firstInvalidUTF8(file.Content); ok {
		start, err := safecast.Conv[uint32](off)
		if err != nil {
			return nil, fmt.Errorf("invalid utf-8 offset: %w", err)
		}
		pos := file.Position(start)
		bag.Add(diag.Diagnostic{
			Line:   int(pos.Line),
			Column: int(pos.Col),
			Reason: "Invalid UTF-8 sequence in input",
			Note:   true,
			Span:   source.Span{File: file.ID, Start: start, End: start + 1},
		})
	}

	span := p.cfg.Timer.Begin("parse")
	doc := mdast.Parse(file)
	span.End()

	span = p.cfg.Timer.Begin("rules")
	defer span.End()
	for i := range p.rules {
		rule := &p.rules[i]
		level, option := p.Effective(*rule)
		if level == diag.LevelOff {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := runRule(rules.NewContext(doc, path, rule, level, option, reporter), rule); err != nil {
			return nil, err
		}
	}
	return bag.Items(), nil
}

func runRule(c *rules.Context, rule *rules.Rule) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRulePanic, rule.ID, r)
		}
	}()
	rule.Check(c)
	return nil
}

func firstInvalidUTF8(b []byte) (int, bool) {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}
