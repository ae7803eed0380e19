package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gfmlint/internal/config"
	"gfmlint/internal/locale"
	"gfmlint/internal/logging"
	"gfmlint/internal/observ"
)

// runSettings is what every subcommand derives from the persistent flags
// and the configuration file.
type runSettings struct {
	cfg     config.Config
	log     *zap.Logger
	loc     *locale.Localizer
	color   bool
	quiet   bool
	timer   *observ.Timer
	baseDir string
}

// loadSettings resolves flags and configuration for target. An explicit
// --config wins over discovery.
func loadSettings(cmd *cobra.Command, target string) (*runSettings, error) {
	flags := cmd.Root().PersistentFlags()

	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-format flag: %w", err)
	}
	log := logging.New(logLevel, logging.Format(logFormat), cmd.ErrOrStderr())

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(target)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debug("configuration loaded", zap.String("path", cfg.Path))
	}

	if flags.Changed("max-diagnostics") {
		maxDiagnostics, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		cfg.MaxDiagnostics = maxDiagnostics
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := readColorMode(colorFlag, os.Stdout)
	if err != nil {
		return nil, err
	}
	color.NoColor = !useColor

	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	baseDir, _ := os.Getwd()
	return &runSettings{
		cfg:     cfg,
		log:     log,
		loc:     locale.Parse(cfg.Language),
		color:   useColor,
		quiet:   quiet,
		timer:   timer,
		baseDir: baseDir,
	}, nil
}

// printTimings writes the phase summary to stderr when --timings is set.
func (s *runSettings) printTimings(cmd *cobra.Command) {
	if s.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}
