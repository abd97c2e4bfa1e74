package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stratsim/config"
	"github.com/rustyeddy/stratsim/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation from a config file",
	Long: `Run replays one strategy configuration against its daily bar data and
prints the resulting wealth, fees, and return on investment.

Example:
  stratsim run -c configs/dca.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	r := buildRun(*cfg, logger)
	rep, err := r.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run %s: %w", r.Name, err)
	}

	printReport(r.Name, rep)
	return nil
}

func printReport(name string, rep sim.Report) {
	fmt.Printf("\nRun Complete: %s (%s, %d bars, %s to %s)\n",
		name, rep.Instrument, rep.Bars,
		rep.Start.Format("2006-01-02"), rep.End.Format("2006-01-02"))
	fmt.Printf("  Cash Balance: $%s\n", rep.FinalBalance.StringFixed(2))
	fmt.Printf("  Equity Value: $%s\n", rep.FinalEquity.StringFixed(2))
	fmt.Printf("  Net Worth:    $%s\n", rep.FinalNet.StringFixed(2))
	fmt.Printf("  Return:       %s%% cumulative, %s%% compounded periods\n",
		rep.Cumulative.String(), rep.TotalROI.String())

	c := rep.Counters
	fmt.Printf("  Orders:    %d executed, %d deleted\n", c.OrdersExecuted, c.OrdersDeleted)
	fmt.Printf("  Trades:    %d buys ($%s), %d sells ($%s)\n",
		c.Buys, c.GrossBoughtTotal.StringFixed(2), c.Sells, c.GrossSoldTotal.StringFixed(2))
	fmt.Printf("  Fees:      $%s trading, $%s management\n",
		c.TradeFeeTotal.StringFixed(2), c.MgmtFeeTotal.StringFixed(2))
	fmt.Printf("  Deposits:  %d ($%s), interest $%s\n",
		c.Deposits, c.DepositTotal.StringFixed(2), c.InterestTotal.StringFixed(2))

	if len(rep.MonthlyROI) > 0 {
		fmt.Println("  Monthly returns:")
		for _, p := range rep.MonthlyROI {
			fmt.Printf("    %s  %s%%\n", p.Start.Format("2006-01"), p.Percent.String())
		}
	}
	if len(rep.YearlyROI) > 0 {
		fmt.Println("  Yearly returns:")
		for _, p := range rep.YearlyROI {
			fmt.Printf("    %s  %s%%\n", p.Start.Format("2006"), p.Percent.String())
		}
	}
}
