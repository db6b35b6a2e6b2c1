package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/storefront-harvester/pkg/config"
	"github.com/user/storefront-harvester/pkg/logger"
	"github.com/user/storefront-harvester/pkg/metrics"
)

var (
	cfg *config.Config

	configPath string
	logLevel   string
	logFormat  string
	engine     string
	headless   bool
	progress   bool
)

var rootCmd = &cobra.Command{
	Use:           "harvester",
	Short:         "harvester crawls storefront listings and comments and consolidates the results.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if flags.Changed("log-format") {
			loaded.LogFormat = logFormat
		}
		if flags.Changed("engine") {
			loaded.DriverEngine = engine
		}
		if flags.Changed("headless") {
			loaded.Headless = headless
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		metrics.Init()
		slog.Debug("Configuration loaded", "engine", cfg.DriverEngine, "headless", cfg.Headless)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to an env-format config file (default .env when present).")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	pf.StringVar(&logFormat, "log-format", "json", "Log format: json or text.")
	pf.StringVar(&engine, "engine", "chromedp", "Browser engine: chromedp, rod or snapshot.")
	pf.BoolVar(&headless, "headless", true, "Run the browser without a visible window.")
	pf.BoolVar(&progress, "progress", false, "Show a spinner while batches run.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
