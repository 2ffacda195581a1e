// Package pipeline runs the battery over a batch of price files: load,
// enrich, save. A failing file is reported and never stops the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rustyeddy/ind/engine"
	"github.com/rustyeddy/ind/feed"
	"github.com/rustyeddy/ind/journal"
	"github.com/rustyeddy/ind/metrics"
	"github.com/rustyeddy/ind/pkg/id"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrOutputConflict marks a file skipped because an earlier file in the
// same batch already writes its output, e.g. AAPL.csv and AAPL.csv.xz.
var ErrOutputConflict = errors.New("output already claimed")

// Result is the outcome of one file.
type Result struct {
	ID      string
	Path    string
	Symbol  string
	Output  string
	Rows    int
	Dropped int
	Columns int
	Skipped []string
	Elapsed time.Duration
	Err     error
}

// OK reports whether the file was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner processes files with a shared engine, battery and sink.
type Runner struct {
	Engine  *engine.Engine
	Battery engine.Battery
	Sink    journal.Sink
	// OutputFolder receives "<symbol>.csv" per input. When empty the input
	// path is handed to the sink as the destination label.
	OutputFolder string
	Location     *time.Location
	Workers      int
	Metrics      *metrics.Metrics
	Log          *zap.Logger
}

// Discover lists the recognized input files directly inside folder,
// sorted by name.
func Discover(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", folder, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !feed.IsInput(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(folder, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Process runs every file and returns one result per file, in input order.
func (r *Runner) Process(ctx context.Context, files []string) []Result {
	results := make([]Result, len(files))

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	claimed := make(map[string]string, len(files))
	for i, path := range files {
		out := r.output(path)
		if first, ok := claimed[out]; ok {
			results[i] = r.reject(path, fmt.Errorf("%w: %s is written from %s", ErrOutputConflict, out, first))
			continue
		}
		claimed[out] = path
		i, path := i, path
		g.Go(func() error {
			results[i] = r.ProcessFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	if r.Metrics != nil {
		r.Metrics.MarkRun(time.Now())
	}
	return results
}

// output is where the enriched series of path is saved.
func (r *Runner) output(path string) string {
	if r.OutputFolder == "" {
		return path
	}
	return filepath.Join(r.OutputFolder, feed.Symbol(path)+".csv")
}

func (r *Runner) reject(path string, err error) Result {
	res := Result{ID: id.New(), Path: path, Symbol: feed.Symbol(path), Output: r.output(path), Err: err}
	if r.Metrics != nil {
		r.Metrics.ObserveFile(err, 0)
	}
	r.logger().Error("file failed",
		zap.String("id", res.ID),
		zap.String("path", path),
		zap.Error(err))
	return res
}

// ProcessFile loads, enriches and saves a single file.
func (r *Runner) ProcessFile(ctx context.Context, path string) Result {
	log := r.logger()
	res := Result{ID: id.New(), Path: path, Symbol: feed.Symbol(path)}
	start := time.Now()

	res.Err = r.run(ctx, &res)
	res.Elapsed = time.Since(start)

	if r.Metrics != nil {
		r.Metrics.ObserveFile(res.Err, res.Elapsed)
	}
	if res.Err != nil {
		log.Error("file failed",
			zap.String("id", res.ID),
			zap.String("path", path),
			zap.Error(res.Err))
		return res
	}
	log.Info("file processed",
		zap.String("id", res.ID),
		zap.String("path", path),
		zap.String("output", res.Output),
		zap.Int("rows", res.Rows),
		zap.Int("columns", res.Columns),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

func (r *Runner) run(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s, rep, err := feed.Load(ctx, res.Path, feed.Options{
		Symbol:   res.Symbol,
		Location: r.Location,
		Logger:   r.logger(),
	})
	if r.Metrics != nil {
		r.Metrics.ObserveIngest(rep)
	}
	if rep != nil {
		res.Dropped = len(rep.Dropped)
	}
	if err != nil {
		return err
	}
	res.Rows = s.Len()

	out, brep, err := r.Engine.ApplyBattery(ctx, s, r.Battery)
	if err != nil {
		return err
	}
	res.Columns = brep.Columns
	for _, sk := range brep.Skipped {
		res.Skipped = append(res.Skipped, sk.Step)
	}

	res.Output = r.output(res.Path)
	return r.Sink.Save(ctx, out, res.Output)
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Summarize counts successes and failures.
func Summarize(results []Result) (ok, failed int) {
	for _, res := range results {
		if res.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
