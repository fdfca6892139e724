package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/dashwise-cli/internal/config"
	"github.com/KaramelBytes/dashwise-cli/internal/logger"
)

var (
	cfgFile      string
	debug        bool
	flagTimezone string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dashwise",
	Short: "DashWise: business intelligence for fitness studios",
	Long: `DashWise turns a spreadsheet of studio visits into KPIs, charts and plain-language
suggestions, either as a Markdown report or as a local web dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dashwise/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA timezone used to derive day and hour (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so every command stays usable
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("timezone") {
		cfg.Timezone = flagTimezone
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if err := logger.Init(logger.Options{Level: level, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to init logger: %v\n", err)
	}
	logger.Debug("config loaded", zap.String("file", cfgFile), zap.String("timezone", cfg.Timezone))
}

// currentConfig returns the loaded configuration, or the defaults when loading was skipped.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}
