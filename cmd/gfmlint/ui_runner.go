package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gfmlint/internal/diagfmt"
	"gfmlint/internal/driver"
	"gfmlint/internal/ui"
)

type lintOutcome struct {
	reports []diagfmt.FileReport
	err     error
}

// runLintWithUI lints files while a progress view runs on stderr. Quitting
// the view cancels the run.
func runLintWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]diagfmt.FileReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		reports, err := driver.New(opts).LintFiles(ctx, files)
		outcomeCh <- lintOutcome{reports: reports, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if m, ok := final.(interface{ Finished() bool }); !ok || !m.Finished() {
		cancel()
	}
	// дочитываем события, чтобы воркеры не заблокировались
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.reports, uiErr
	}
	return outcome.reports, outcome.err
}
