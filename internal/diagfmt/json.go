package diagfmt

import (
	"encoding/json"
	"io"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

// ResultJSON is a ValidationResult plus its translated message.
type ResultJSON struct {
	validate.ValidationResult
	LocalizedMessage string `json:"localizedMessage"`
}

// FileJSON holds the results of one document.
type FileJSON struct {
	Results []ResultJSON `json:"results"`
	Count   int          `json:"count"`
	Fixed   int          `json:"fixed,omitempty"`
}

// Output представляет корневую структуру JSON вывода
type Output struct {
	Files map[string]FileJSON `json:"files"`
}

// BuildOutput формирует структуру JSON-вывода без сериализации.
func BuildOutput(reports []FileReport, loc *locale.Localizer, opts JSONOpts) Output {
	if loc == nil {
		loc = locale.English
	}
	out := Output{Files: make(map[string]FileJSON, len(reports))}
	for _, rep := range reports {
		items := rep.Results
		if opts.Max > 0 && opts.Max < len(items) {
			items = items[:opts.Max]
		}
		results := make([]ResultJSON, 0, len(items))
		for _, r := range items {
			results = append(results, ResultJSON{
				ValidationResult: r,
				LocalizedMessage: loc.Localize(r.Message, r.RuleID),
			})
		}
		out.Files[displayPath(rep.Path, opts.PathMode, opts.BaseDir)] = FileJSON{
			Results: results,
			Count:   len(results),
			Fixed:   rep.Fixed,
		}
	}
	return out
}

// JSON форматирует результаты в JSON формат.
func JSON(w io.Writer, reports []FileReport, loc *locale.Localizer, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildOutput(reports, loc, opts))
}
