package locale

import (
	"golang.org/x/text/language"

	"gfmlint/internal/validate"
)

// english has no message tables: rule messages are already English.
var english = &catalogue{
	tag: language.English,
	categories: map[validate.Category]string{
		validate.CategoryGeneral:       "general",
		validate.CategoryHeading:       "heading",
		validate.CategoryList:          "list",
		validate.CategoryTable:         "table",
		validate.CategoryTaskList:      "task list",
		validate.CategoryStrikethrough: "strikethrough",
		validate.CategoryAutolink:      "autolink",
	},
	severities: map[validate.Severity]string{
		validate.SeverityError:   "error",
		validate.SeverityWarning: "warning",
		validate.SeverityNote:    "note",
	},
	tabs: []Tab{
		{validate.CategoryGeneral, "All", "Shows every validation result"},
		{validate.CategoryHeading, "Headings", "Checks heading syntax and order"},
		{validate.CategoryList, "Lists", "Checks ordered and unordered list rules"},
		{validate.CategoryTable, "Tables", "Checks table syntax and structure"},
		{validate.CategoryTaskList, "Tasks", "Checks task list syntax"},
		{validate.CategoryStrikethrough, "Strikethrough", "Checks strikethrough syntax"},
		{validate.CategoryAutolink, "Links", "Checks URL autolinking rules"},
	},
	texts: map[TextKey]string{
		TextTitle:            "Validation results",
		TextNoErrors:         "No problems found. The Markdown is well formed.",
		TextNoCategoryErrors: "No problems in this category.",
		TextUnknownCategory:  "unknown",
		TextOriginal:         "original",
		TextRuleID:           "rule",
		TextLine:             "line",
		TextColumn:           "col",
		TextMessage:          "message",
		TextCategory:         "category",
		TextSeverity:         "severity",
		TextProblems:         "problems",
		TextFixed:            "fixed",
	},
}
