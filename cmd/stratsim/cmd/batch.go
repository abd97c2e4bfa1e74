package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stratsim/config"
	"github.com/rustyeddy/stratsim/sim"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many simulation configurations concurrently",
	Long: `Batch runs every configuration in a list file. Each run gets its own
engine, ledgers and listeners; a failing configuration (bad parameters,
not enough historical data) is reported and does not abort the others.

Example:
  stratsim batch -c configs/sweep.yaml -w 8`,
	RunE: runBatchCmd,
}

var (
	batchConfigPath string
	batchWorkers    int
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchConfigPath, "config", "c", "", "path to batch config list (YAML or JSON) (required)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", runtime.NumCPU(), "max concurrent runs")
	batchCmd.MarkFlagRequired("config")
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfgs, err := config.LoadBatch(batchConfigPath)
	if err != nil {
		return err
	}
	if len(cfgs) == 0 {
		return fmt.Errorf("batch: no configurations in %s", batchConfigPath)
	}

	runs := make([]sim.NamedRun, len(cfgs))
	for i, cfg := range cfgs {
		runs[i] = buildRun(cfg, logger)
	}

	logger.Info().Int("runs", len(runs)).Int("workers", batchWorkers).Msg("starting batch")
	results := sim.RunBatch(context.Background(), runs, batchWorkers)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Error().Err(res.Err).Str("run", res.Name).Msg("run failed")
			continue
		}
		fmt.Printf("%-30s net $%s  (%s%% cumulative, %d orders)\n",
			res.Name, res.Report.FinalNet.StringFixed(2),
			res.Report.Cumulative.String(), res.Report.Counters.OrdersExecuted)
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d runs failed (see log)\n", failed, len(results))
	}
	return nil
}
