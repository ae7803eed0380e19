package validate

import (
	"strings"

	"gfmlint/internal/diag"
)

// UnknownRule stands in for a diagnostic without a rule identifier.
const UnknownRule = "unknown"

// ParseErrorRule identifies the synthetic result of a failed run.
const ParseErrorRule = "parse-error"

type categoryRule struct {
	keywords []string
	category Category
}

// categoryRules are checked in order; the first rule with a keyword
// contained in the rule id wins.
var categoryRules = []categoryRule{
	{keywords: []string{"heading"}, category: CategoryHeading},
	{keywords: []string{"list"}, category: CategoryList},
	{keywords: []string{"table"}, category: CategoryTable},
	{keywords: []string{"checkbox", "task"}, category: CategoryTaskList},
	{keywords: []string{"strikethrough", "delete"}, category: CategoryStrikethrough},
	{keywords: []string{"link", "url"}, category: CategoryAutolink},
}

// errorRules always classify as errors.
var errorRules = []string{
	"no-duplicate-headings",
	ParseErrorRule,
	"no-undefined-references",
	"no-unresolved-references",
}

// CategoryOf derives the category of a rule id.
func CategoryOf(ruleID string) Category {
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(ruleID, kw) {
				return r.category
			}
		}
	}
	return CategoryGeneral
}

func isErrorRule(ruleID string) bool {
	for _, id := range errorRules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// Classify turns a raw diagnostic into a result. A missing rule id is
// classified and stored as UnknownRule.
func Classify(d diag.Diagnostic) ValidationResult {
	ruleID := d.RuleID
	if ruleID == "" {
		ruleID = UnknownRule
	}
	severity := SeverityWarning
	switch {
	case d.Fatal || isErrorRule(ruleID):
		severity = SeverityError
	case d.Note:
		severity = SeverityNote
	}
	return ValidationResult{
		Line:     max(d.Line, 0),
		Column:   max(d.Column, 0),
		Message:  d.Reason,
		RuleID:   ruleID,
		Severity: severity,
		Category: CategoryOf(ruleID),
	}
}
