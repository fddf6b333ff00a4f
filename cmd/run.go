package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	runSource    sourceFlags
	runNoPlots   bool
	runShowTypes bool
	runPrint     bool
	runQuiet     bool
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Clean one dataset and write the cleaned table, summaries and charts",
	Long: `Load a CSV/TSV (optionally .gz/.bz2/.xz/.zst compressed), XLSX, SQLite or Postgres
table, run the cleaning pipeline and write the results into the output directory.

Without a path, --db (or database_url) is used, then default_dataset when
use_default_dataset is enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		src, err := resolveSource(c, args, runSource)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(c)
		if err != nil {
			return err
		}
		defer closeLog()

		j := job{cfg: c, log: log, src: src, outDir: c.OutputDir, plots: c.Plots && !runNoPlots}
		res, err := j.run(context.Background())
		if err != nil {
			return err
		}
		if runShowTypes {
			fmt.Println("EDA types:")
			printTypes(os.Stdout, res.Result)
		}
		if runPrint {
			fmt.Println(res.Summary.Markdown(src.String(), res.Corr))
		}
		if !runQuiet {
			rep := res.Result.Report
			fmt.Printf("✓ Cleaned %s: %d rows x %d columns (%d duplicate rows removed, %d columns dropped)\n",
				src, res.Result.Table.Rows(), res.Result.Table.Width(),
				rep.Dedupe.FullRowDropped+rep.Dedupe.IDDropped, len(rep.Dropped()))
			for _, f := range res.Files {
				fmt.Printf("✓ Wrote %s\n", f)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSourceFlags(runCmd, &runSource)
	runCmd.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip chart rendering")
	runCmd.Flags().BoolVar(&runShowTypes, "show-types", false, "print the EDA type of every column")
	runCmd.Flags().BoolVar(&runPrint, "print", false, "print the markdown summary to stdout")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress progress output")
}

func addSourceFlags(c *cobra.Command, sf *sourceFlags) {
	c.Flags().StringVar(&sf.db, "db", "", "Postgres connection URL (postgres://...)")
	c.Flags().StringVarP(&sf.tableName, "table", "t", "", "table name for database sources")
	c.Flags().StringVar(&sf.sheet, "sheet-name", "", "XLSX: sheet name (default first sheet)")
	c.Flags().StringVar(&sf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
}
