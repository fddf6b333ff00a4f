package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Set assigns a configuration value by its yaml key.
func (c *Global) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "output_dir":
		c.OutputDir = value
	case "impute_strategy":
		c.ImputeStrategy = value
	case "export_format":
		c.ExportFormat = value
	case "summary_format":
		c.SummaryFormat = value
	case "table_format":
		c.TableFormat = value
	case "plots":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("plots: %w", err)
		}
		c.Plots = b
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	case "log_mode":
		c.LogMode = value
	case "log_file":
		c.LogFile = value
	case "delimiter":
		c.Delimiter = value
	case "database_url":
		c.DatabaseURL = value
	case "table_name":
		c.TableName = value
	case "sheet_name":
		c.SheetName = value
	case "default_dataset":
		c.DefaultDataset = value
	case "use_default_dataset":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("use_default_dataset: %w", err)
		}
		c.UseDefaultDataset = b
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Keys lists the settable keys.
func Keys() []string {
	keys := []string{
		"output_dir", "impute_strategy", "export_format", "summary_format", "table_format",
		"plots", "log_level", "log_format", "log_mode", "log_file", "delimiter",
		"database_url", "table_name", "sheet_name", "default_dataset", "use_default_dataset",
	}
	sort.Strings(keys)
	return keys
}

// Delim parses the delimiter setting. Empty means auto-detect.
func Delim(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s", s)
}
