package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratsim",
	Short: "A deterministic trading strategy simulator over daily price data",
	Long: `Stratsim evaluates trading strategies against historical daily bars and
measures resulting wealth, fees, and return on investment.

It provides tools for:
  - Replaying a strategy chronologically over a daily bar series
  - Cash accounting with interest accrual and scheduled deposits
  - Brokerage fee structures: flat, percentage, and laddered marginal tiers
  - Event-sourced statistics and daily/monthly/yearly ROI
  - Batch runs of many configurations with per-run failure isolation`,
}

var (
	verbose bool
	logger  zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cobra.OnInitialize(func() {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	})
}
