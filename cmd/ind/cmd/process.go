package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/ind/config"
	"github.com/rustyeddy/ind/engine"
	"github.com/rustyeddy/ind/journal"
	"github.com/rustyeddy/ind/metrics"
	"github.com/rustyeddy/ind/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Enrich every price file in a folder (or a single file)",
	Long: `Process loads each price file, applies the indicator battery and
writes the enriched series.

CSV output goes to "<output-folder>/<symbol>.csv"; the output folder
defaults to the input folder with "_ind" appended. SQLite output records
one run per file in the --db database.

Examples:
  ind process -i data
  ind process -f data/EURUSD.csv.xz --session hour --session-offset 17h
  ind process -i data --format sqlite --db ind.sqlite --skip gaps,fvg`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ok, failed, err := runBatch(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d file(s): %d ok, %d failed\n", ok+failed, ok, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// batch owns everything one pass over the inputs needs.
type batch struct {
	runner  *pipeline.Runner
	metrics *metrics.Metrics
}

func newBatch(cfg *config.Config, log *zap.Logger) (*batch, error) {
	part, err := cfg.Session.Partitioner()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Input.Location()
	if err != nil {
		return nil, fmt.Errorf("input.timezone: %w", err)
	}
	sink, err := journal.Open(journal.Options{
		Format:    cfg.Output.Format,
		Precision: cfg.Output.Precision,
		DBPath:    cfg.Output.DBPath,
	})
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	r := &pipeline.Runner{
		Engine: engine.New(
			engine.WithLogger(log),
			engine.WithPartitioner(part),
			engine.WithRecorder(m),
		),
		Battery:  cfg.Battery,
		Sink:     sink,
		Location: loc,
		Workers:  cfg.Run.Workers,
		Metrics:  m,
		Log:      log,
	}
	if cfg.Output.Format != journal.FormatSQLite {
		r.OutputFolder = cfg.OutputFolder()
	}
	return &batch{runner: r, metrics: m}, nil
}

func (b *batch) Close() error {
	return b.runner.Sink.Close()
}

// inputs lists the files a run covers: the single configured file, or
// every recognized file in the input folder.
func inputs(cfg *config.Config) ([]string, error) {
	if cfg.Input.File != "" {
		return []string{cfg.Input.File}, nil
	}
	return pipeline.Discover(cfg.Input.Folder)
}

// runBatch processes the configured inputs once and writes the metrics
// textfile when one is configured.
func runBatch(ctx context.Context, cfg *config.Config, log *zap.Logger) (ok, failed int, err error) {
	files, err := inputs(cfg)
	if err != nil {
		return 0, 0, err
	}
	if len(files) == 0 {
		log.Warn("no input files", zap.String("folder", cfg.Input.Folder))
		return 0, 0, nil
	}

	b, err := newBatch(cfg, log)
	if err != nil {
		return 0, 0, err
	}
	defer b.Close()

	start := time.Now()
	results := b.runner.Process(ctx, files)
	ok, failed = pipeline.Summarize(results)
	log.Info("batch complete",
		zap.Int("files", len(files)),
		zap.Int("ok", ok),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))

	for _, res := range results {
		if !res.OK() {
			fmt.Printf("  FAIL %s: %v\n", res.Path, res.Err)
			continue
		}
		fmt.Printf("  ok   %s -> %s (%d rows, %d columns)\n", res.Path, res.Output, res.Rows, res.Columns)
		for _, name := range res.Skipped {
			fmt.Printf("       skipped %s\n", name)
		}
	}

	if cfg.Run.MetricsFile != "" {
		if err := b.metrics.WriteTextfile(cfg.Run.MetricsFile); err != nil {
			log.Error("write metrics", zap.String("path", cfg.Run.MetricsFile), zap.Error(err))
		}
	}
	return ok, failed, nil
}
