package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/ind/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-process the input folder on a cron schedule",
	Long: `Schedule runs "process" whenever the cron spec fires, until interrupted.
A batch still running when the next tick arrives is skipped.

Examples:
  ind schedule --cron "@hourly" -i data
  ind schedule --config ind.yaml   # uses run.schedule`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().String("cron", "", `cron spec, e.g. "0 * * * *" or "@daily"`)
	bind(scheduleCmd.Flags().Lookup("cron"), "run.schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Run.Schedule == "" {
		return fmt.Errorf("no schedule: set --cron or run.schedule")
	}

	s := pipeline.NewScheduler(log)
	err = s.Add(cmd.Context(), cfg.Run.Schedule, func(ctx context.Context) {
		if _, _, err := runBatch(ctx, cfg, log); err != nil {
			log.Error("batch failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Scheduled %q, press Ctrl-C to stop\n", cfg.Run.Schedule)
	s.Run(cmd.Context())
	return nil
}
