// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/internal/convert"
	"github.com/pdiddy/url2md/internal/reader"
	"github.com/pdiddy/url2md/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive conversion widget",
	Long: `Tui opens a terminal widget: press enter to show the URL input, type a
page address and press enter again to save its markdown rendering into the
output directory. Logs go to log.file when set and are discarded otherwise.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("disabled", false, "start with all interaction suppressed")
	tuiCmd.Flags().String("out-dir", "", "directory for downloaded files (default from output.dir)")
	viper.BindPFlag("tui.disabled", tuiCmd.Flags().Lookup("disabled"))

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if cfg.Log.File == "" {
		// The alternate screen owns the terminal; stderr logging would corrupt it.
		zap.ReplaceGlobals(zap.NewNop())
	}
	logger := zap.L()

	outDir := cfg.Output.Dir
	if dir, _ := cmd.Flags().GetString("out-dir"); dir != "" {
		outDir = dir
	}

	model := tui.New(cmd.Context(), tui.Config{
		Fetcher:    reader.New(cfg.Reader),
		Saver:      convert.FileSaver{Dir: outDir},
		ServiceURL: cfg.Reader.BaseURL,
		Disabled:   cfg.TUI.Disabled,
		ToastTTL:   cfg.TUI.ToastDuration,
		OnSubmit: func(url string) {
			logger.Info("converted", zap.String("url", url), zap.String("dir", outDir))
		},
		Logger: logger,
	})

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
