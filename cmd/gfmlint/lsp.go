package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gfmlint/internal/lsp"
	"gfmlint/internal/processor"
	"gfmlint/internal/version"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the gfmlint language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
}

func runLSP(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, ".")
	if err != nil {
		return err
	}
	defer func() { _ = settings.log.Sync() }()
	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Processor: processor.New(settings.cfg.ProcessorConfig()),
		Options:   settings.cfg.ValidateOptions(),
		Locale:    settings.loc,
		Logger:    settings.log,
		Version:   version.Version,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
