// Package locale translates rule messages and display strings.
//
// A message is resolved in four steps: the rule id table (exact), the
// message table (exact), the message table again by substring in
// declaration order, and finally the message itself. Tables are ordered
// slices so the first match is stable. Messages starting with a known
// prefix (the parse-error prefix) only get the prefix translated.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"gfmlint/internal/validate"
)

type pair struct {
	key  string
	text string
}

// TextKey names a fixed display string.
type TextKey uint8

const (
	TextTitle TextKey = iota
	TextNoErrors
	TextNoCategoryErrors
	TextUnknownCategory
	TextOriginal
	TextRuleID
	TextLine
	TextColumn
	TextMessage
	TextCategory
	TextSeverity
	TextProblems
	TextFixed
)

// Tab is one entry of the category tab bar. The general tab lists every
// result.
type Tab struct {
	Category    validate.Category
	Label       string
	Description string
}

type catalogue struct {
	tag          language.Tag
	ruleMessages []pair
	prefixes     []pair // lookup table keyed by message prefix; the rest of the message is kept
	messages     []pair
	categories   map[validate.Category]string
	severities   map[validate.Severity]string
	tabs         []Tab
	texts        map[TextKey]string
}

// Localizer renders display text in one language.
type Localizer struct {
	cat *catalogue
}

var (
	English  = &Localizer{cat: english}
	Japanese = &Localizer{cat: japanese}
)

var supported = []*Localizer{English, Japanese}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = l.cat.tag
	}
	return language.NewMatcher(tags)
}()

// ForTag picks the best supported localizer for the preferred tags;
// English when nothing matches.
func ForTag(tags ...language.Tag) *Localizer {
	if len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return supported[idx]
}

// Parse resolves a language name ("ja", "en-US", "ja_JP.UTF-8"). "auto"
// and "" consult LC_ALL, LC_MESSAGES and LANG.
func Parse(name string) *Localizer {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "auto") {
		return FromEnv()
	}
	tag, err := language.Parse(cleanPOSIX(name))
	if err != nil {
		return English
	}
	return ForTag(tag)
}

// FromEnv reads the POSIX locale variables.
func FromEnv() *Localizer {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := cleanPOSIX(os.Getenv(key))
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if tag, err := language.Parse(v); err == nil {
			return ForTag(tag)
		}
	}
	return English
}

// cleanPOSIX turns "ja_JP.UTF-8@euro" into "ja-JP".
func cleanPOSIX(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", "-")
}

// Tag returns the language of l.
func (l *Localizer) Tag() language.Tag {
	return l.cat.tag
}

// Localize translates a rule message. Unknown messages come back unchanged.
func (l *Localizer) Localize(message, ruleID string) string {
	if ruleID != "" {
		for _, p := range l.cat.ruleMessages {
			if p.key == ruleID {
				return p.text
			}
		}
	}
	// Prefix table: a message is in it when it starts with a key.
	for _, p := range l.cat.prefixes {
		if rest, ok := strings.CutPrefix(message, p.key); ok {
			return p.text + rest
		}
	}
	for _, p := range l.cat.messages {
		if p.key == message {
			return p.text
		}
	}
	for _, p := range l.cat.messages {
		if strings.Contains(message, p.key) {
			return p.text
		}
	}
	return message
}

// Category returns the display name of c.
func (l *Localizer) Category(c validate.Category) string {
	if name, ok := l.cat.categories[c]; ok {
		return name
	}
	return l.Text(TextUnknownCategory)
}

// Severity returns the display name of s.
func (l *Localizer) Severity(s validate.Severity) string {
	if name, ok := l.cat.severities[s]; ok {
		return name
	}
	return string(s)
}

// Tabs returns the tab bar, general ("all") first.
func (l *Localizer) Tabs() []Tab {
	return l.cat.tabs
}

// Text returns a fixed display string.
func (l *Localizer) Text(key TextKey) string {
	return l.cat.texts[key]
}

// Localize translates with the Japanese catalogue, the display language of
// the results view.
func Localize(message, ruleID string) string {
	return Japanese.Localize(message, ruleID)
}
