package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"gfmlint/internal/diag"
	"gfmlint/internal/processor"
	"gfmlint/internal/validate"
)

type ruleInfo struct {
	ID       string            `json:"id"`
	Category validate.Category `json:"category"`
	Level    string            `json:"level"`
	Option   int               `json:"option,omitempty"`
	Fixable  bool              `json:"fixable"`
	Summary  string            `json:"summary"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of the preset",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	settings, err := loadSettings(cmd, ".")
	if err != nil {
		return err
	}

	// уровни с учётом конфигурации
	proc := processor.New(settings.cfg.ProcessorConfig())
	infos := make([]ruleInfo, 0, len(proc.Rules()))
	for _, r := range proc.Rules() {
		level, option := proc.Effective(r)
		infos = append(infos, ruleInfo{
			ID:       r.ID,
			Category: validate.CategoryOf(r.ID),
			Level:    level.String(),
			Option:   option,
			Fixable:  r.Fixable,
			Summary:  r.Summary,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		return printRules(cmd.OutOrStdout(), infos)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// printRules aligns the columns by display width; the level is padded
// before it is coloured so escape codes do not shift the layout.
func printRules(out io.Writer, infos []ruleInfo) error {
	header := []string{"RULE", "CATEGORY", "LEVEL", "FIX", "SUMMARY"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		fixable := ""
		if info.Fixable {
			fixable = "yes"
		}
		rows = append(rows, []string{info.ID, string(info.Category), info.Level, fixable, info.Summary})
	}
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(row []string, level *color.Color) string {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			cell = runewidth.FillRight(cell, widths[i])
			if i == 2 && level != nil {
				cell = level.Sprint(cell)
			}
			b.WriteString(cell)
			b.WriteString("  ")
		}
		return strings.TrimRight(b.String(), " ") + "\n"
	}

	if _, err := io.WriteString(out, line(header, nil)); err != nil {
		return err
	}
	for i, row := range rows {
		if _, err := io.WriteString(out, line(row, levelColor(infos[i].Level))); err != nil {
			return err
		}
	}
	return nil
}

func levelColor(level string) *color.Color {
	switch level {
	case diag.LevelError.String():
		return color.New(color.FgRed)
	case diag.LevelWarn.String():
		return color.New(color.FgYellow)
	case diag.LevelOff.String():
		return color.New(color.Faint)
	default:
		return color.New(color.FgCyan)
	}
}
