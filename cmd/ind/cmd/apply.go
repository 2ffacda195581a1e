package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rustyeddy/ind/engine"
	"github.com/rustyeddy/ind/feed"
	"github.com/rustyeddy/ind/indicators"
	"github.com/rustyeddy/ind/journal"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <indicator>",
	Short: "Apply a single indicator to one file",
	Long: `Apply computes one indicator over a price file and writes the series
with the new column(s) as CSV.

Parameters are a YAML mapping; fields left out keep their defaults
(see "ind list").

Examples:
  ind apply sma -f data/AAPL.csv --params "{period: 50}"
  ind apply macd -f data/EURUSD.csv.xz --params "{fast: 12, slow: 26, signal: 9}" --out macd.csv
  ind apply vwap -f data/EURUSD.csv --session hour`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var (
	applyParams string
	applyOut    string
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyParams, "params", "p", "", `indicator parameters, e.g. "{period: 20}"`)
	applyCmd.Flags().StringVar(&applyOut, "out", "", "output CSV file (default stdout)")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Input.File == "" {
		return fmt.Errorf("apply needs an input file (--file)")
	}
	params, err := indicators.ParseParams(args[0], applyParams)
	if err != nil {
		return err
	}
	part, err := cfg.Session.Partitioner()
	if err != nil {
		return err
	}
	loc, err := cfg.Input.Location()
	if err != nil {
		return fmt.Errorf("input.timezone: %w", err)
	}

	ctx := cmd.Context()
	s, _, err := feed.Load(ctx, cfg.Input.File, feed.Options{Location: loc, Logger: log})
	if err != nil {
		return err
	}
	out, err := engine.New(engine.WithLogger(log), engine.WithPartitioner(part)).Apply(s, args[0], params)
	if err != nil {
		return err
	}

	w := journal.NewCSV(cfg.Output.Precision)
	if applyOut != "" {
		if err := w.Save(ctx, out, applyOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d rows)\n", applyOut, out.Len())
		return nil
	}
	bw := bufio.NewWriter(os.Stdout)
	if err := w.Write(ctx, bw, out); err != nil {
		return err
	}
	return bw.Flush()
}
