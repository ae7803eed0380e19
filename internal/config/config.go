// Package config loads .gfmlint.toml.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"gfmlint/internal/diag"
	"gfmlint/internal/processor"
	"gfmlint/internal/rules"
	"gfmlint/internal/validate"
)

var (
	// ErrUnknownRule is returned for [rules.<id>] tables naming no preset rule.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrInvalidValue is returned for values outside their domain.
	ErrInvalidValue = errors.New("invalid value")
)

// Config is the resolved configuration.
type Config struct {
	Path           string // empty when no file was found
	Categories     []validate.Category
	Language       string
	MaxDiagnostics int
	MaxInputBytes  int
	Rules          map[string]processor.RuleSetting
}

type fileConfig struct {
	Lint  lintConfig            `toml:"lint"`
	Rules map[string]ruleConfig `toml:"rules"`
}

type lintConfig struct {
	Categories     []string `toml:"categories"`
	Language       string   `toml:"language"`
	MaxDiagnostics int      `toml:"max-diagnostics"`
	MaxInputBytes  int      `toml:"max-input-bytes"`
}

type ruleConfig struct {
	Level  string `toml:"level"`
	Option int    `toml:"option"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Categories: validate.DefaultOptions().Categories,
		Language:   "auto",
		Rules:      map[string]processor.RuleSetting{},
	}
}

// Discover finds and loads the configuration for target. Without a file
// it returns Default.
func Discover(target string) (Config, error) {
	path, ok, err := Find(target)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load parses the file at path.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("lint", "categories") {
		cats, err := validate.ParseCategories(strings.Join(fc.Lint.Categories, ","))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [lint].categories: %w", path, err)
		}
		cfg.Categories = cats
	}
	if meta.IsDefined("lint", "language") {
		lang := strings.TrimSpace(fc.Lint.Language)
		if lang == "" {
			return Config{}, fmt.Errorf("%s: [lint].language: %w: empty", path, ErrInvalidValue)
		}
		cfg.Language = lang
	}
	if meta.IsDefined("lint", "max-diagnostics") {
		if fc.Lint.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("%s: [lint].max-diagnostics: %w: %d", path, ErrInvalidValue, fc.Lint.MaxDiagnostics)
		}
		cfg.MaxDiagnostics = fc.Lint.MaxDiagnostics
	}
	if meta.IsDefined("lint", "max-input-bytes") {
		if fc.Lint.MaxInputBytes <= 0 {
			return Config{}, fmt.Errorf("%s: [lint].max-input-bytes: %w: %d", path, ErrInvalidValue, fc.Lint.MaxInputBytes)
		}
		cfg.MaxInputBytes = fc.Lint.MaxInputBytes
	}

	ids := make([]string, 0, len(fc.Rules))
	for id := range fc.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, ok := rules.Lookup(id); !ok {
			return Config{}, fmt.Errorf("%s: [rules.%s]: %w", path, id, ErrUnknownRule)
		}
		rc := fc.Rules[id]
		var s processor.RuleSetting
		if meta.IsDefined("rules", id, "level") {
			level, err := diag.ParseLevel(rc.Level)
			if err != nil {
				return Config{}, fmt.Errorf("%s: [rules.%s].level: %w: %w", path, id, ErrInvalidValue, err)
			}
			s.Level, s.HasLevel = level, true
		}
		if meta.IsDefined("rules", id, "option") {
			s.Option, s.HasOption = rc.Option, true
		}
		cfg.Rules[id] = s
	}
	return cfg, nil
}

// ProcessorConfig converts cfg for processor.New.
func (c Config) ProcessorConfig() processor.Config {
	return processor.Config{
		MaxInputBytes:  c.MaxInputBytes,
		MaxDiagnostics: c.MaxDiagnostics,
		Rules:          c.Rules,
	}
}

// ValidateOptions converts cfg for validate.Validator.
func (c Config) ValidateOptions() validate.Options {
	return validate.Options{Categories: slices.Clone(c.Categories)}
}
