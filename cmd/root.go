package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/edaclean/internal/config"
	"github.com/KaramelBytes/edaclean/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags (override config when set)
	cfgFile      string
	debug        bool
	flagOutDir   string
	flagLogMode  string
	flagLogLevel string
	flagStrategy string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edaclean",
	Short: "edaclean: clean a dataset, classify its columns and summarize it",
	Long: `edaclean loads a table from a CSV/TSV/XLSX file, a SQLite database or Postgres,
normalizes column names, removes duplicate rows, infers column types, resolves missing
values and writes a cleaned copy, summary statistics and charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edaclean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "out", "o", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogMode, "log-mode", "", "log sinks: c (console), f (file), fc (both)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "console log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagStrategy, "strategy", "", "numeric imputation strategy: median|mean|mode")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{OutputDir: "output", ImputeStrategy: "median", ExportFormat: "all", SummaryFormat: "all", TableFormat: "csv", Plots: true, LogMode: logging.ModeConsole}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("out") && flagOutDir != "" {
		cfg.OutputDir = flagOutDir
	}
	if f.Changed("log-mode") && flagLogMode != "" {
		cfg.LogMode = flagLogMode
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if f.Changed("strategy") && flagStrategy != "" {
		cfg.ImputeStrategy = flagStrategy
	}
}

// currentConfig returns the loaded configuration, loading it on first use.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	loadConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return cfg, nil
}

// newLogger builds the process logger from configuration.
func newLogger(c *cfgpkg.Global) (*slog.Logger, func() error, error) {
	return logging.Setup(logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Mode:   c.LogMode,
		File:   c.LogFile,
	})
}
