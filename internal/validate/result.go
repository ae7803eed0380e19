package validate

// ValidationResult is one classified finding.
type ValidationResult struct {
	Line     int      `json:"line" msgpack:"line"`
	Column   int      `json:"column" msgpack:"column"`
	Message  string   `json:"message" msgpack:"message"`
	RuleID   string   `json:"ruleId" msgpack:"ruleId"`
	Severity Severity `json:"severity" msgpack:"severity"`
	Category Category `json:"category" msgpack:"category"`
}

// ResultsByCategory keeps the results whose category equals c. Unlike the
// Options filter, CategoryGeneral is not special here.
func ResultsByCategory(results []ValidationResult, c Category) []ValidationResult {
	out := make([]ValidationResult, 0, len(results))
	for _, r := range results {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// CountByCategory counts results per category.
func CountByCategory(results []ValidationResult) map[Category]int {
	counts := make(map[Category]int, len(allCategories))
	for _, r := range results {
		counts[r.Category]++
	}
	return counts
}

// CountBySeverity counts results per severity.
func CountBySeverity(results []ValidationResult) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, r := range results {
		counts[r.Severity]++
	}
	return counts
}

// HasErrors reports whether any result has error severity.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}
