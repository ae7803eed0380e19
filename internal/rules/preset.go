package rules

import (
	"gfmlint/internal/diag"
)

// PresetName names the rule set.
const PresetName = "markdown-style-guide"

var preset = []Rule{
	// file names
	{ID: "file-extension", Summary: "file extension should be md", Level: diag.LevelWarn, Check: checkFileExtension},
	{ID: "no-file-name-mixed-case", Summary: "file names should not mix casing", Level: diag.LevelWarn, Check: checkFileNameMixedCase},
	{ID: "no-file-name-irregular-characters", Summary: "file names should use letters, digits, dots and dashes", Level: diag.LevelWarn, Check: checkFileNameIrregular},
	{ID: "no-file-name-consecutive-dashes", Summary: "file names should not contain consecutive dashes", Level: diag.LevelWarn, Check: checkFileNameConsecutiveDashes},
	{ID: "no-file-name-outer-dashes", Summary: "file names should not start or end with a dash", Level: diag.LevelWarn, Check: checkFileNameOuterDashes},
	{ID: "no-file-name-articles", Summary: "file names should not start with an article", Level: diag.LevelWarn, Check: checkFileNameArticles},

	// headings
	{ID: "heading-style", Summary: "headings should use atx", Level: diag.LevelWarn, Check: checkHeadingStyle},
	{ID: "heading-increment", Summary: "heading ranks should increment by one", Level: diag.LevelWarn, Check: checkHeadingIncrement},
	{ID: "no-duplicate-headings", Summary: "heading texts should be unique", Level: diag.LevelWarn, Check: checkDuplicateHeadings},
	{ID: "no-multiple-toplevel-headings", Summary: "a document should have one rank 1 heading", Level: diag.LevelWarn, Check: checkMultipleToplevel},
	{ID: "maximum-heading-length", Summary: "headings should be short", Level: diag.LevelWarn, Option: 60, Check: checkHeadingLength},
	{ID: "no-heading-punctuation", Summary: "headings should not end in punctuation", Level: diag.LevelWarn, Check: checkHeadingPunctuation},
	{ID: "no-missing-space-atx", Summary: "ATX hashes should be followed by a space", Level: diag.LevelWarn, Check: checkMissingSpaceATX},
	{ID: "no-emphasis-as-heading", Summary: "emphasis should not stand in for a heading", Level: diag.LevelWarn, Check: checkEmphasisAsHeading},

	// lists
	{ID: "unordered-list-marker-style", Summary: "unordered lists should use -", Level: diag.LevelWarn, Fixable: true, Check: checkUnorderedMarker},
	{ID: "ordered-list-marker-style", Summary: "ordered lists should use .", Level: diag.LevelWarn, Check: checkOrderedMarkerStyle},
	{ID: "ordered-list-marker-value", Summary: "ordered list items should all be numbered 1", Level: diag.LevelWarn, Check: checkOrderedMarkerValue},
	{ID: "list-item-indent", Summary: "list item content should follow the marker after one space", Level: diag.LevelWarn, Check: checkListItemIndent},
	{ID: "list-marker-space", Summary: "list markers should be followed by a space", Level: diag.LevelWarn, Check: checkListMarkerSpace},

	// tables
	{ID: "table-pipes", Summary: "table rows should start and end with a pipe", Level: diag.LevelWarn, Check: checkTablePipes},
	{ID: "no-table-indentation", Summary: "tables should not be indented", Level: diag.LevelWarn, Check: checkTableIndentation},
	{ID: "table-cell-padding", Summary: "table cells should be padded with a space", Level: diag.LevelWarn, Check: checkTableCellPadding},
	{ID: "table-delimiter-length", Summary: "delimiter cells should have at least 3 dashes", Level: diag.LevelWarn, Option: 3, Check: checkTableDelimiterLength},

	// task lists
	{ID: "checkbox-character-style", Summary: "checkboxes should be [ ] or [x]", Level: diag.LevelWarn, Fixable: true, Check: checkCheckboxCharacter},
	{ID: "checkbox-content-indent", Summary: "checkboxes should be followed by one space", Level: diag.LevelWarn, Check: checkCheckboxContentIndent},

	// strikethrough
	{ID: "strikethrough-marker", Summary: "strikethrough should use ~~", Level: diag.LevelWarn, Check: checkStrikethroughMarker},

	// links
	{ID: "no-literal-urls", Summary: "URLs should be wrapped in angle brackets", Level: diag.LevelWarn, Fixable: true, Check: checkLiteralURLs},
	{ID: "no-shortcut-reference-link", Summary: "reference links should not use the shortcut form", Level: diag.LevelWarn, Check: checkShortcutReferenceLink},
	{ID: "no-empty-url", Summary: "links should have a destination", Level: diag.LevelWarn, Check: checkEmptyURL},
	{ID: "no-empty-link-text", Summary: "links should have text", Level: diag.LevelWarn, Check: checkEmptyLinkText},
	{ID: "no-undefined-references", Summary: "references should have a definition", Level: diag.LevelWarn, Check: checkUndefinedReferences},

	// general
	{ID: "no-consecutive-blank-lines", Summary: "at most one blank line between blocks", Level: diag.LevelWarn, Fixable: true, Check: checkConsecutiveBlankLines},
	{ID: "no-trailing-spaces", Summary: "lines should not end in whitespace", Level: diag.LevelWarn, Fixable: true, Check: checkTrailingSpaces},
	{ID: "hard-break-spaces", Summary: "hard breaks should use exactly two spaces", Level: diag.LevelWarn, Check: checkHardBreakSpaces},
	{ID: "final-newline", Summary: "files should end with a line feed", Level: diag.LevelWarn, Fixable: true, Check: checkFinalNewline},
	{ID: "maximum-line-length", Summary: "lines should be short", Level: diag.LevelWarn, Option: 80, Check: checkLineLength},
	{ID: "no-missing-blank-lines", Summary: "top-level blocks should be separated by a blank line", Level: diag.LevelWarn, Check: checkMissingBlankLines},
	{ID: "code-block-style", Summary: "code blocks should be fenced", Level: diag.LevelWarn, Check: checkCodeBlockStyle},
	{ID: "fenced-code-flag", Summary: "fenced code should have a language flag", Level: diag.LevelWarn, Check: checkFencedCodeFlag},
	{ID: "fenced-code-marker", Summary: "fences should use backticks", Level: diag.LevelWarn, Check: checkFencedCodeMarker},
	{ID: "rule-style", Summary: "thematic breaks should be ---", Level: diag.LevelWarn, Check: checkRuleStyle},
	{ID: "emphasis-marker", Summary: "emphasis should use *", Level: diag.LevelWarn, Check: checkEmphasisMarker},
	{ID: "strong-marker", Summary: "strong should use *", Level: diag.LevelWarn, Check: checkStrongMarker},
	{ID: "no-inline-padding", Summary: "inline content should not be padded", Level: diag.LevelWarn, Check: checkInlinePadding},
	{ID: "no-shell-dollars", Summary: "shell code should not start with $", Level: diag.LevelWarn, Check: checkShellDollars},
	{ID: "blockquote-indentation", Summary: "blockquote content should follow > after one space", Level: diag.LevelWarn, Check: checkBlockquoteIndentation},
}

// Preset returns the rules in run order. The slice is a copy.
func Preset() []Rule {
	out := make([]Rule, len(preset))
	copy(out, preset)
	return out
}

// Lookup finds a preset rule by identifier.
func Lookup(id string) (Rule, bool) {
	for i := range preset {
		if preset[i].ID == id {
			return preset[i], true
		}
	}
	return Rule{}, false
}
