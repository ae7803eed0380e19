package validate

import (
	"fmt"
	"strings"
)

// Category groups results by topic.
type Category string

const (
	CategoryHeading       Category = "heading"
	CategoryList          Category = "list"
	CategoryTable         Category = "table"
	CategoryTaskList      Category = "taskList"
	CategoryStrikethrough Category = "strikethrough"
	CategoryAutolink      Category = "autolink"
	CategoryGeneral       Category = "general"
)

var allCategories = [...]Category{
	CategoryHeading,
	CategoryList,
	CategoryTable,
	CategoryTaskList,
	CategoryStrikethrough,
	CategoryAutolink,
	CategoryGeneral,
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	return allCategories[:]
}

func (c Category) Valid() bool {
	for _, k := range allCategories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory accepts the JSON value of a category, case-insensitively,
// and a few spellings used on the command line.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "tasklist", "task-list", "task", "tasks":
		return CategoryTaskList, nil
	case "link", "links":
		return CategoryAutolink, nil
	case "headings":
		return CategoryHeading, nil
	case "lists":
		return CategoryList, nil
	case "tables":
		return CategoryTable, nil
	}
	for _, c := range allCategories {
		if string(c) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseCategories parses a comma separated list; empty input means every
// category.
func ParseCategories(list string) ([]Category, error) {
	if strings.TrimSpace(list) == "" {
		return AllCategories(), nil
	}
	var out []Category
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Severity is how serious a result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Rank orders severities, error first.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	}
	return 2
}
