package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gfmlint/internal/driver"
	"gfmlint/internal/locale"
	"gfmlint/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [flags] <file.md>",
		Short: "Browse the results of one document by category",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowse,
	}
	cmd.Flags().String("lang", "", "message language (auto|en|ja), overrides the config")
	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path := args[0]
	settings, err := loadSettings(cmd, path)
	if err != nil {
		return err
	}
	defer func() { _ = settings.log.Sync() }()

	lang, err := cmd.Flags().GetString("lang")
	if err != nil {
		return fmt.Errorf("failed to get lang flag: %w", err)
	}
	loc := settings.loc
	if lang != "" {
		loc = locale.Parse(lang)
	}

	d := driver.New(driver.Options{
		Processor: settings.cfg.ProcessorConfig(),
		Validate:  settings.cfg.ValidateOptions(),
		Logger:    settings.log,
		Timer:     settings.timer,
	})
	rep, err := d.LintFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	model := ui.NewBrowseModel(path, rep.Results, loc)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	settings.printTimings(cmd)
	return nil
}
