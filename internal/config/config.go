package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	ImputeStrategy string `mapstructure:"impute_strategy" yaml:"impute_strategy"`
	// ExportFormat selects the flat summary table: csv|md|all.
	ExportFormat string `mapstructure:"export_format" yaml:"export_format"`
	// SummaryFormat selects the summary document: json|yaml|all.
	SummaryFormat string `mapstructure:"summary_format" yaml:"summary_format"`
	// TableFormat selects the cleaned table export: csv|xlsx.
	TableFormat string `mapstructure:"table_format" yaml:"table_format"`
	Plots       bool   `mapstructure:"plots" yaml:"plots"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	LogMode   string `mapstructure:"log_mode" yaml:"log_mode"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`

	// Sources
	Delimiter         string `mapstructure:"delimiter" yaml:"delimiter"`
	DatabaseURL       string `mapstructure:"database_url" yaml:"database_url"`
	TableName         string `mapstructure:"table_name" yaml:"table_name"`
	SheetName         string `mapstructure:"sheet_name" yaml:"sheet_name"`
	DefaultDataset    string `mapstructure:"default_dataset" yaml:"default_dataset"`
	UseDefaultDataset bool   `mapstructure:"use_default_dataset" yaml:"use_default_dataset"`
}

// Dir returns ~/.edaclean.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edaclean"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edaclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDACLEAN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output_dir", "output")
	v.SetDefault("impute_strategy", "median")
	v.SetDefault("export_format", "all")
	v.SetDefault("summary_format", "all")
	v.SetDefault("table_format", "csv")
	v.SetDefault("plots", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_mode", "c")
	v.SetDefault("log_file", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("database_url", "")
	v.SetDefault("table_name", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("default_dataset", "")
	v.SetDefault("use_default_dataset", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.OutputDir, "edaclean.log")
	}
	return &c, nil
}
