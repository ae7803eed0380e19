package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gfmlint/internal/version"
)

// errProblemsFound makes the process exit with status 1 without printing
// anything beyond the report itself.
var errProblemsFound = errors.New("problems found")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gfmlint",
		Short:         "GitHub Flavored Markdown linter",
		Long:          `gfmlint checks Markdown documents against the markdown-style-guide preset and reports classified, localized results`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = config or unlimited)")
	flags.String("config", "", "path to .gfmlint.toml (default: discovered from the target)")
	flags.String("log-level", "", "log level (debug|info|warn|error|off)")
	flags.String("log-format", "", "log format (console|json)")
	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file")
	flags.String("runtime-trace", "", "write runtime trace to file")

	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// main builds the command tree and executes it. Any error, including lint
// problems, exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errProblemsFound) {
			fmt.Fprintln(os.Stderr, "gfmlint:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
