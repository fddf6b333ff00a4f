package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var (
	sSource  sourceFlags
	sEvery   time.Duration
	sSpec    string
	sNoPlots bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [path]",
	Short: "Re-run the cleaning pipeline on a schedule",
	Long: `Run the pipeline periodically, either every --every interval or on a cron --spec
(e.g. "0 0 * * * *" for hourly). Useful for tables that are refreshed in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := cronSpec(sSpec, sEvery)
		if err != nil {
			return err
		}
		c, err := currentConfig()
		if err != nil {
			return err
		}
		src, err := resolveSource(c, args, sSource)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(c)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		j := job{cfg: c, log: log, src: src, outDir: c.OutputDir, plots: c.Plots && !sNoPlots}
		var mu sync.Mutex
		tick := func() {
			if !mu.TryLock() {
				log.Warn("previous run still in progress, skipping", "spec", spec)
				return
			}
			defer mu.Unlock()
			t1 := time.Now()
			res, err := j.run(ctx)
			if err != nil {
				log.Error("scheduled run failed", "error", err)
				return
			}
			log.Info("scheduled run finished", "rows", res.Result.Table.Rows(), "elapsed", time.Since(t1))
		}

		cr := cron.New()
		if err := cr.AddFunc(spec, tick); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
		cr.Start()
		defer cr.Stop()
		fmt.Printf("Scheduled %s (%s); Ctrl+C to stop\n", src, spec)
		<-ctx.Done()
		return nil
	},
}

// cronSpec returns the cron expression, preferring an explicit spec over an interval.
func cronSpec(spec string, every time.Duration) (string, error) {
	switch {
	case spec != "":
		return spec, nil
	case every > 0:
		return fmt.Sprintf("@every %s", every), nil
	}
	return "", fmt.Errorf("set --every or --spec")
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	addSourceFlags(scheduleCmd, &sSource)
	scheduleCmd.Flags().DurationVar(&sEvery, "every", 0, "interval between runs, e.g. 15m")
	scheduleCmd.Flags().StringVar(&sSpec, "spec", "", "cron spec with seconds field, e.g. \"0 */30 * * * *\"")
	scheduleCmd.Flags().BoolVar(&sNoPlots, "no-plots", false, "skip chart rendering")
}
