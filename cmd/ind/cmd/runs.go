package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/ind/journal"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs [symbol]",
	Short: "List runs saved in a SQLite database",
	Long: `Runs lists the series recorded by "process --format sqlite",
oldest first, optionally for one symbol.

Subcommands:
  show   - Print one column of a run

Examples:
  ind runs --db ind.sqlite
  ind runs AAPL --db ind.sqlite
  ind runs show 01HQ... RSI_14 --db ind.sqlite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id> <column>",
	Short: "Print one indicator column of a run",
	Args:  cobra.ExactArgs(2),
	RunE:  runRunsShow,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
}

func openRuns() (*journal.SQLite, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Output.DBPath == "" {
		return nil, fmt.Errorf("no database: set --db or output.db_path")
	}
	j, err := journal.NewSQLite(cfg.Output.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	j, err := openRuns()
	if err != nil {
		return err
	}
	defer j.Close()

	symbol := ""
	if len(args) == 1 {
		symbol = args[0]
	}
	runs, err := j.ListRuns(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSYMBOL\tCREATED\tROWS\tCOLUMNS\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Symbol, r.Created.Local().Format(time.DateTime), r.Rows, len(r.Columns), r.Source)
	}
	return tw.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := openRuns()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	run, err := j.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	vals, err := j.Values(ctx, run.ID, args[1])
	if err != nil {
		return fmt.Errorf("values: %w", err)
	}
	if len(vals) == 0 {
		return fmt.Errorf("run %s has no values for %q (columns: %s)",
			run.ID, args[1], strings.Join(run.Columns, ", "))
	}

	fmt.Printf("%s %s %s\n", run.Symbol, args[1], run.ID)
	for _, v := range vals {
		cell := v.Label
		if cell == "" {
			cell = fmt.Sprintf("%g", v.Value)
		}
		fmt.Printf("%s\t%s\n", v.Time.Format(time.RFC3339), cell)
	}
	return nil
}
