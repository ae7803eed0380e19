package validate

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"gfmlint/internal/diag"
	"gfmlint/internal/logging"
	"gfmlint/internal/observ"
	"gfmlint/internal/processor"
)

// ParseErrorPrefix starts the message of the synthetic parse-error result.
const ParseErrorPrefix = "An error occurred while parsing: "

// UnknownError describes failures that carry no message.
const UnknownError = "Unknown error"

// Options selects which categories a run returns.
type Options struct {
	Categories []Category
}

// DefaultOptions enables every category.
func DefaultOptions() Options {
	return Options{Categories: slices.Clone(allCategories[:])}
}

// Filter applies the category selection. A selection containing
// CategoryGeneral keeps everything; otherwise only the listed categories
// survive, so an empty selection keeps nothing.
func (o Options) Filter(results []ValidationResult) []ValidationResult {
	if slices.Contains(o.Categories, CategoryGeneral) {
		return results
	}
	out := make([]ValidationResult, 0, len(results))
	for _, r := range results {
		if slices.Contains(o.Categories, r.Category) {
			out = append(out, r)
		}
	}
	return out
}

// Processor produces raw diagnostics for a document.
type Processor interface {
	Process(ctx context.Context, path string, src []byte) ([]diag.Diagnostic, error)
}

// Validator runs a Processor and classifies its output.
type Validator struct {
	processor Processor
	path      string
	log       *zap.Logger
	timer     *observ.Timer
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithPath sets the file name given to the processor.
func WithPath(path string) ValidatorOption {
	return func(v *Validator) { v.path = path }
}

// WithLogger logs processor failures to log.
func WithLogger(log *zap.Logger) ValidatorOption {
	return func(v *Validator) { v.log = logging.OrNop(log) }
}

// WithTimer records the classify phase on t.
func WithTimer(t *observ.Timer) ValidatorOption {
	return func(v *Validator) { v.timer = t }
}

// New creates a validator; a nil processor means the default preset.
func New(p Processor, opts ...ValidatorOption) *Validator {
	if p == nil {
		p = processor.Default()
	}
	v := &Validator{processor: p, log: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the processor once over text and returns the classified,
// filtered results in emission order. It never fails: a processor error or
// panic becomes a single parse-error result.
func (v *Validator) Validate(ctx context.Context, text string, opts Options) (results []ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("processor panicked", zap.String("path", v.path), zap.Any("panic", r))
			results = []ValidationResult{ParseError(panicDescription(r))}
		}
	}()

	diags, err := v.processor.Process(ctx, v.path, []byte(text))
	if err != nil {
		v.log.Warn("validation failed", zap.String("path", v.path), zap.Error(err))
		return []ValidationResult{ParseError(err.Error())}
	}

	span := v.timer.Begin("classify")
	defer span.End()
	results = make([]ValidationResult, 0, len(diags))
	for _, d := range diags {
		results = append(results, Classify(d))
	}
	return opts.Filter(results)
}

var defaultValidator = New(nil)

// ValidateMarkdown validates text with the default preset. Without options
// every category is returned.
func ValidateMarkdown(ctx context.Context, text string, opts ...Options) []ValidationResult {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return defaultValidator.Validate(ctx, text, o)
}

// ParseError builds the synthetic result reported when a document cannot be
// processed. An empty description becomes UnknownError.
func ParseError(desc string) ValidationResult {
	if desc == "" {
		desc = UnknownError
	}
	return ValidationResult{
		Line:     0,
		Column:   0,
		Message:  ParseErrorPrefix + desc,
		RuleID:   ParseErrorRule,
		Severity: SeverityError,
		Category: CategoryGeneral,
	}
}

func panicDescription(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	}
	return fmt.Sprint(r)
}
