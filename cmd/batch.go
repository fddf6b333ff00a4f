package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/edaclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	bDelimiter string
	bSheetName string
	bTableName string
	bNoPlots   bool
	bQuiet     bool
	bFailFast  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Clean multiple CSV/TSV/XLSX/SQLite files, one output sub-directory each",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandPaths(args)
		if err != nil {
			return err
		}
		c, err := currentConfig()
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(c)
		if err != nil {
			return err
		}
		defer closeLog()

		src, err := resolveSource(c, files[:1], sourceFlags{tableName: bTableName, sheet: bSheetName, delimiter: bDelimiter})
		if err != nil {
			return err
		}
		used := map[string]bool{}
		total := len(files)
		failed := 0
		for i, path := range files {
			if !bQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			s := src
			s.Path = path
			outDir := utils.UniqueDir(c.OutputDir, datasetDirName(path), used)
			j := job{cfg: c, log: log.With("file", path), src: s, outDir: outDir, plots: c.Plots && !bNoPlots}
			res, err := j.run(context.Background())
			if err != nil {
				if bFailFast {
					return err
				}
				failed++
				fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", filepath.Base(path), err)
				continue
			}
			if !bQuiet {
				fmt.Printf("✓ %s -> %s (%d rows x %d columns)\n", filepath.Base(path), outDir, res.Result.Table.Rows(), res.Result.Table.Width())
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// datasetDirName derives an output directory name from a source file name.
func datasetDirName(path string) string {
	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		name = name[:len(name)-len(ext)]
	}
	if name == "" {
		name = "dataset"
	}
	return name
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&bDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	batchCmd.Flags().StringVar(&bSheetName, "sheet-name", "", "XLSX: sheet name to load")
	batchCmd.Flags().StringVarP(&bTableName, "table", "t", "", "SQLite: table name to load from each database")
	batchCmd.Flags().BoolVar(&bNoPlots, "no-plots", false, "skip chart rendering")
	batchCmd.Flags().BoolVarP(&bQuiet, "quiet", "q", false, "suppress progress output")
	batchCmd.Flags().BoolVar(&bFailFast, "fail-fast", false, "stop at the first file that fails")
}
