package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gfmlint/internal/diagfmt"
	"gfmlint/internal/driver"
	"gfmlint/internal/locale"
	"gfmlint/internal/rules"
	"gfmlint/internal/validate"
	"gfmlint/internal/version"
)

const stdinName = "-"

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [flags] [file.md|directory|-]...",
		Short: "Lint Markdown files, directories or stdin",
		Long:  `Lint Markdown documents. Directories are searched recursively for *.md and *.markdown files; "-" reads stdin.`,
		RunE:  runLint,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short|sarif)")
	cmd.Flags().String("categories", "", "comma-separated categories to report (default: config or all)")
	cmd.Flags().String("lang", "", "message language (auto|en|ja), overrides the config")
	cmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	cmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 on warnings too")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("fix", false, "apply available fixes and write files back")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	cmd.Flags().String("ui", "auto", "progress interface for directories (auto|on|off)")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	return cmd
}

type lintFlags struct {
	format           string
	categories       string
	lang             string
	noWarnings       bool
	warningsAsErrors bool
	jobs             int
	fix              bool
	cache            bool
	ui               uiMode
	pathMode         diagfmt.PathMode
}

func readLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var (
		f   lintFlags
		err error
	)
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "short", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.categories, err = cmd.Flags().GetString("categories"); err != nil {
		return f, fmt.Errorf("failed to get categories flag: %w", err)
	}
	if f.lang, err = cmd.Flags().GetString("lang"); err != nil {
		return f, fmt.Errorf("failed to get lang flag: %w", err)
	}
	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.fix, err = cmd.Flags().GetBool("fix"); err != nil {
		return f, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if f.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return f, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}
	return f, nil
}

// runLint lints the targets, prints the report in the chosen format and
// returns errProblemsFound when an error-severity result remains (or a
// warning, with --warnings-as-errors).
func runLint(cmd *cobra.Command, args []string) error {
	flags, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		args = []string{"."}
	}
	readStdin := len(args) == 1 && args[0] == stdinName
	configTarget := args[0]
	if readStdin {
		configTarget = "."
	}

	settings, err := loadSettings(cmd, configTarget)
	if err != nil {
		return err
	}
	defer func() { _ = settings.log.Sync() }()
	defer settings.printTimings(cmd)

	vopts := settings.cfg.ValidateOptions()
	if cmd.Flags().Changed("categories") {
		cats, err := validate.ParseCategories(flags.categories)
		if err != nil {
			return err
		}
		vopts.Categories = cats
	}
	loc := settings.loc
	if flags.lang != "" {
		loc = locale.Parse(flags.lang)
	}

	opts := driver.Options{
		Processor: settings.cfg.ProcessorConfig(),
		Validate:  vopts,
		Jobs:      flags.jobs,
		Fix:       flags.fix,
		Logger:    settings.log,
		Timer:     settings.timer,
	}
	if flags.cache && !flags.fix {
		cache, err := driver.OpenDiskCache("gfmlint")
		if err != nil {
			settings.log.Warn("disk cache unavailable", zap.Error(err))
		} else {
			opts.Cache = cache
		}
	}

	var reports []diagfmt.FileReport
	if readStdin {
		rep, err := driver.New(opts).ReadSource(cmd.Context(), stdinName, cmd.InOrStdin())
		if err != nil {
			return err
		}
		reports = []diagfmt.FileReport{rep}
		if flags.fix {
			if _, err := cmd.OutOrStdout().Write(rep.Source); err != nil {
				return err
			}
			return exitStatus(reports, flags)
		}
	} else {
		files, err := driver.ExpandTargets(args)
		if err != nil {
			return err
		}
		if len(files) > 1 && !settings.quiet && shouldUseTUI(flags.ui) {
			reports, err = runLintWithUI(cmd.Context(), "Linting Markdown", files, opts)
		} else {
			reports, err = driver.New(opts).LintFiles(cmd.Context(), files)
		}
		if err != nil {
			return err
		}
	}

	if flags.noWarnings {
		for i := range reports {
			reports[i].Results = dropWarnings(reports[i].Results)
		}
	}
	if err := writeReports(cmd, reports, loc, settings, flags); err != nil {
		return err
	}
	return exitStatus(reports, flags)
}

func writeReports(cmd *cobra.Command, reports []diagfmt.FileReport, loc *locale.Localizer, settings *runSettings, flags lintFlags) error {
	out := cmd.OutOrStdout()
	maxPerFile := settings.cfg.MaxDiagnostics
	switch flags.format {
	case "pretty":
		return diagfmt.Pretty(out, reports, loc, diagfmt.PrettyOpts{
			Color:        settings.color,
			Context:      2,
			PathMode:     flags.pathMode,
			BaseDir:      settings.baseDir,
			ShowOriginal: loc != locale.English,
			ShowCategory: true,
			Summary:      !settings.quiet,
		})
	case "short":
		return diagfmt.Short(out, reports, loc, flags.pathMode, settings.baseDir)
	case "json":
		return diagfmt.JSON(out, reports, loc, diagfmt.JSONOpts{
			PathMode: flags.pathMode,
			BaseDir:  settings.baseDir,
			Max:      maxPerFile,
		})
	case "sarif":
		return diagfmt.Sarif(out, reports, diagfmt.SarifRunMeta{
			ToolName:       "gfmlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
			RuleSummaries:  ruleSummaries(),
			PathMode:       flags.pathMode,
			BaseDir:        settings.baseDir,
		})
	default:
		return fmt.Errorf("unknown format: %s", flags.format)
	}
}

func dropWarnings(results []validate.ValidationResult) []validate.ValidationResult {
	out := results[:0:0]
	for _, r := range results {
		if r.Severity != validate.SeverityWarning {
			out = append(out, r)
		}
	}
	return out
}

func exitStatus(reports []diagfmt.FileReport, flags lintFlags) error {
	for _, rep := range reports {
		if validate.HasErrors(rep.Results) {
			return errProblemsFound
		}
		if flags.warningsAsErrors && validate.CountBySeverity(rep.Results)[validate.SeverityWarning] > 0 {
			return errProblemsFound
		}
	}
	return nil
}

func ruleSummaries() map[string]string {
	preset := rules.Preset()
	out := make(map[string]string, len(preset)+1)
	for _, r := range preset {
		out[r.ID] = r.Summary
	}
	out[validate.ParseErrorRule] = strings.TrimSpace(validate.ParseErrorPrefix)
	return out
}
