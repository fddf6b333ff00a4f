package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/edaclean/internal/monitor"
	"github.com/spf13/cobra"
)

var (
	wSource  sourceFlags
	wNoPlots bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run the cleaning pipeline whenever a file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		src, err := resolveSource(c, args, wSource)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(c)
		if err != nil {
			return err
		}
		defer closeLog()

		m, err := monitor.NewFileMonitor(src.Path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", src.Path, err)
		}
		defer m.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		j := job{cfg: c, log: log, src: src, outDir: c.OutputDir, plots: c.Plots && !wNoPlots}
		rerun := func(string) {
			res, err := j.run(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ %v\n", err)
				return
			}
			fmt.Printf("✓ Cleaned %s: %d rows x %d columns\n", src, res.Result.Table.Rows(), res.Result.Table.Width())
		}
		rerun(src.Path)
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", src.Path)
		return m.Watch(ctx, rerun)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addSourceFlags(watchCmd, &wSource)
	watchCmd.Flags().BoolVar(&wNoPlots, "no-plots", false, "skip chart rendering")
}
