package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/edaclean/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edaclean configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "impute_strategy: %s\n", c.ImputeStrategy)
		fmt.Fprintf(out, "table_format: %s\n", c.TableFormat)
		fmt.Fprintf(out, "summary_format: %s\n", c.SummaryFormat)
		fmt.Fprintf(out, "export_format: %s\n", c.ExportFormat)
		fmt.Fprintf(out, "plots: %t\n", c.Plots)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(out, "log_mode: %s\n", c.LogMode)
		fmt.Fprintf(out, "log_file: %s\n", c.LogFile)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.DatabaseURL != "" {
			fmt.Fprintf(out, "database_url: %s\n", maskDSN(c.DatabaseURL))
		}
		if c.TableName != "" {
			fmt.Fprintf(out, "table_name: %s\n", c.TableName)
		}
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		if c.DefaultDataset != "" {
			fmt.Fprintf(out, "default_dataset: %s\n", c.DefaultDataset)
		}
		fmt.Fprintf(out, "use_default_dataset: %t\n", c.UseDefaultDataset)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// maskDSN hides the password of a connection URL.
func maskDSN(s string) string {
	at := strings.LastIndex(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	creds := s[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return s[:scheme+3] + creds[:i] + ":" + mask(creds[i+1:]) + s[at:]
	}
	return s
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
