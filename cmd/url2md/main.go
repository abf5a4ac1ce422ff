// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the url2md CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/internal/config"
	"github.com/pdiddy/url2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the validated configuration loaded before any subcommand runs.
var cfg *types.Config

// rootCmd is the base command for the url2md CLI.
var rootCmd = &cobra.Command{
	Use:   "url2md",
	Short: "Save web pages as markdown files",
	Long: `url2md converts a web page to markdown through the Jina Reader service
(https://r.jina.ai) and saves the result as a local .md file.

Use the interactive widget (tui), convert a single URL from the command line
(convert), or serve conversions over HTTP (serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			zap.L().Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./url2md.yaml or ~/.config/url2md/url2md.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}

	viper.SetConfigName("url2md")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "url2md"))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
